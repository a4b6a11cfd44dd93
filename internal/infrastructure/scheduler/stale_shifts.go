// Package scheduler tareas periódicas del gateway.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// StaleShiftMonitor cuenta los turnos que siguen abiertos más allá del umbral.
type StaleShiftMonitor struct {
	ledger     repository.CashLedger
	staleAfter time.Duration
	report     func(n int)
	log        *logger.Logger
	now        func() time.Time
}

// NewStaleShiftMonitor construye el monitor. report recibe el conteo de cada pasada (puede ser nil).
func NewStaleShiftMonitor(ledger repository.CashLedger, staleAfter time.Duration, report func(int), log *logger.Logger) *StaleShiftMonitor {
	if log == nil {
		log = logger.Nop()
	}
	if report == nil {
		report = func(int) {}
	}
	return &StaleShiftMonitor{
		ledger:     ledger,
		staleAfter: staleAfter,
		report:     report,
		log:        log.Component("stale_shifts"),
		now:        time.Now,
	}
}

// Check ejecuta una pasada.
func (m *StaleShiftMonitor) Check(ctx context.Context) (int, error) {
	n, err := m.ledger.CountOpenSince(ctx, m.now().Add(-m.staleAfter))
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudo contar turnos vencidos")
		return 0, err
	}
	m.report(n)
	if n > 0 {
		m.log.Warn().Int("count", n).Dur("stale_after", m.staleAfter).Msg("turnos abiertos vencidos")
	}
	return n, nil
}

// Start programa Check cada every en segundo plano. Detener con Scheduler.Stop.
func (m *StaleShiftMonitor) Start(loc *time.Location, every time.Duration) (*gocron.Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	_, err := s.Every(every).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, _ = m.Check(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: programar monitor: %w", err)
	}
	s.StartAsync()
	return s, nil
}
