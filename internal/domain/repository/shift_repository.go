package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

// ShiftRepository define el puerto de persistencia de turnos de caja (DIP).
// Lo implementan el backend remoto y el almacén PostgreSQL local.
type ShiftRepository interface {
	// FindOpenByUser devuelve el turno abierto del usuario o nil.
	FindOpenByUser(ctx context.Context, userID string) (*entity.Shift, error)
	// FindCurrent devuelve el último turno del usuario abierto en el día indicado, o nil.
	FindCurrent(ctx context.Context, userID string, day time.Time) (*entity.Shift, error)
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	Create(ctx context.Context, shift *entity.Shift) error
	// Close obtiene el saldo del sistema y persiste el resultado de Shift.Close de forma atómica:
	// si falla, el turno sigue abierto.
	Close(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error)
	// Rebalance persiste el resultado de Shift.Rebalance.
	Rebalance(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error)
	List(ctx context.Context, f entity.ShiftFilter) ([]*entity.Shift, int, error)
}

// CashLedger movimientos de caja por turno (solo el almacén local los registra).
type CashLedger interface {
	AddMovement(ctx context.Context, m *entity.CashMovement) error
	ListMovements(ctx context.Context, shiftID string) ([]entity.CashMovement, error)
	CountOpenSince(ctx context.Context, openedBefore time.Time) (int, error)
}
