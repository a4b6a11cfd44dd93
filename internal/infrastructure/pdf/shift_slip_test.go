package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/pdf"
)

func TestRenderShiftSlip_GeneraPDF(t *testing.T) {
	opened := time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC)
	s, err := entity.OpenShift("S-41", "7", decimal.NewFromInt(100000), opened)
	require.NoError(t, err)
	s.UserName = "Budi"
	require.NoError(t, s.Close(decimal.NewFromInt(95000), decimal.NewFromInt(100000), opened.Add(8*time.Hour)))

	movements := []entity.CashMovement{
		{ID: "m1", ShiftID: s.ID, Type: entity.MovementSale, Amount: decimal.NewFromInt(25000), Description: "INV-001", CreatedAt: opened.Add(time.Hour)},
		{ID: "m2", ShiftID: s.ID, Type: entity.MovementCashOut, Amount: decimal.NewFromInt(25000), Description: "Beli galon", CreatedAt: opened.Add(2 * time.Hour)},
	}
	jakarta := time.FixedZone("WIB", 7*3600)

	out, err := pdf.NewShiftSlipGenerator("Toko Makmur", jakarta).RenderShiftSlip(s, movements)
	require.NoError(t, err)

	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderShiftSlip_TurnoAbiertoSinMovimientos(t *testing.T) {
	s, err := entity.OpenShift("S-1", "7", decimal.Zero, time.Now())
	require.NoError(t, err)

	out, err := pdf.NewShiftSlipGenerator("", nil).RenderShiftSlip(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
