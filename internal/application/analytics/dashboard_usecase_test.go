package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-dashboard/internal/application/analytics"
	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

type fakeSource struct {
	out *dto.DashboardSummaryDTO
	err error
}

func (f fakeSource) Summary(context.Context) (*dto.DashboardSummaryDTO, error) { return f.out, f.err }

type fakeLedger struct{ open int }

func (f fakeLedger) AddMovement(context.Context, *entity.CashMovement) error { return nil }
func (f fakeLedger) ListMovements(context.Context, string) ([]entity.CashMovement, error) {
	return nil, nil
}
func (f fakeLedger) CountOpenSince(context.Context, time.Time) (int, error) { return f.open, nil }

var now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }

func TestGetSummary_ConAlmacenLocal(t *testing.T) {
	src := fakeSource{out: &dto.DashboardSummaryDTO{TodaySales: decimal.RequireFromString("1500.555"), OpenShifts: 9}}
	uc := analytics.NewDashboardUseCase(src, fakeLedger{open: 2}, nil).WithClock(now)

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, out.OpenShifts, "el almacén local manda sobre el backend")
	assert.Equal(t, "1500.56", out.TodaySales.StringFixed(2))
	assert.Equal(t, "Oktober 2026", out.DateLabel)
	assert.NotNil(t, out.TopProducts)
}

func TestGetSummary_SinAlmacenLocal(t *testing.T) {
	src := fakeSource{out: &dto.DashboardSummaryDTO{OpenShifts: 4}}
	uc := analytics.NewDashboardUseCase(src, nil, nil).WithClock(now)

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.OpenShifts)
}

func TestGetSummary_ErrorDelBackend(t *testing.T) {
	boom := errors.New("boom")
	uc := analytics.NewDashboardUseCase(fakeSource{err: boom}, nil, nil)

	_, err := uc.GetSummary(context.Background())
	assert.ErrorIs(t, err, boom)
}
