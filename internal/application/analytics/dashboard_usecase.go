// Package analytics arma el resumen del dashboard: KPIs del backend más los
// turnos abiertos del almacén local cuando existe.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
)

// SummarySource fuente de los KPIs de ventas y stock (backend).
type SummarySource interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
}

// DashboardUseCase genera el resumen del día y del mes en curso.
// ledger es opcional: sin almacén local de turnos OpenShifts queda como lo entrega el backend.
type DashboardUseCase struct {
	source SummarySource
	ledger repository.CashLedger
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(source SummarySource, ledger repository.CashLedger, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{source: source, ledger: ledger, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary consulta en paralelo:
//  1. Summary()              → ventas, transacciones, compras, stock bajo, top productos
//  2. CountOpenSince(ahora)  → turnos abiertos (solo con almacén local)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	type summaryResult struct {
		out *dto.DashboardSummaryDTO
		err error
	}
	type countResult struct {
		n   int
		err error
	}
	summaryCh := make(chan summaryResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		out, err := uc.source.Summary(ctx)
		summaryCh <- summaryResult{out, err}
	}()
	go func() {
		if uc.ledger == nil {
			countCh <- countResult{n: -1}
			return
		}
		n, err := uc.ledger.CountOpenSince(ctx, now)
		countCh <- countResult{n, err}
	}()

	summary := <-summaryCh
	count := <-countCh

	if summary.err != nil {
		return nil, fmt.Errorf("dashboard: resumen: %w", summary.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("dashboard: turnos abiertos: %w", count.err)
	}

	out := summary.out
	if count.n >= 0 {
		out.OpenShifts = count.n
	}
	if out.TopProducts == nil {
		out.TopProducts = []dto.TopProductDTO{}
	}
	out.TodaySales = out.TodaySales.Round(2)
	out.MonthlySales = out.MonthlySales.Round(2)
	out.MonthlyPurchases = out.MonthlyPurchases.Round(2)
	out.DateLabel = monthLabel(now)
	return out, nil
}

// monthLabel etiqueta del mes en indonesio, ej: "Oktober 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
