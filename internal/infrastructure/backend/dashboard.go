package backend

import (
	"context"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
)

// DashboardClient resumen analítico del backend.
type DashboardClient struct {
	c *Client
}

// NewDashboardClient construye el adaptador.
func NewDashboardClient(c *Client) *DashboardClient {
	return &DashboardClient{c: c}
}

// Summary GET /dashboard/summary.
func (d *DashboardClient) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	resp, err := d.c.Get(ctx, "/dashboard/summary", nil)
	if err != nil {
		return nil, err
	}
	var out dto.DashboardSummaryDTO
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if out.TopProducts == nil {
		out.TopProducts = []dto.TopProductDTO{}
	}
	return &out, nil
}
