package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-dashboard/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc   *appanalytics.DashboardUseCase
	resp *Responder
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, resp *Responder) *DashboardHandler {
	return &DashboardHandler{uc: uc, resp: resp}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Ventas y transacciones del día, ventas y compras del mes, stock bajo, turnos abiertos y productos más vendidos.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(summary)
}
