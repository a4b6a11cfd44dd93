package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-dashboard/internal/domain"
)

// ShiftStatus estado del turno de caja.
// Transiciones: no_shift → open → {closed | pending_close}. closed y pending_close son finales
// para esa instancia; después se puede abrir un turno nuevo.
type ShiftStatus string

const (
	ShiftNone         ShiftStatus = "no_shift"
	ShiftOpen         ShiftStatus = "open"
	ShiftPendingClose ShiftStatus = "pending_close"
	ShiftClosed       ShiftStatus = "closed"
)

// Valid indica si el estado es uno de los persistibles.
func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftOpen, ShiftPendingClose, ShiftClosed:
		return true
	}
	return false
}

// Shift turno de un cajero, acotado por la apertura y el cierre de caja.
type Shift struct {
	ID             string
	UserID         string
	UserName       string
	OpenedAt       time.Time
	ClosedAt       *time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance *decimal.Decimal // saldo contado por el cajero
	SystemBalance  *decimal.Decimal // saldo calculado desde las transacciones
	Difference     *decimal.Decimal // ClosingBalance - SystemBalance (selisih)
	Status         ShiftStatus
	UpdatedAt      time.Time
}

// OpenShift construye un turno abierto. El saldo inicial no puede ser negativo.
func OpenShift(id, userID string, opening decimal.Decimal, now time.Time) (*Shift, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id requerido", domain.ErrInvalidInput)
	}
	if opening.IsNegative() {
		return nil, fmt.Errorf("%w: opening_balance no puede ser negativo", domain.ErrInvalidInput)
	}
	return &Shift{
		ID:             id,
		UserID:         userID,
		OpenedAt:       now,
		OpeningBalance: opening,
		Status:         ShiftOpen,
		UpdatedAt:      now,
	}, nil
}

// Reconcile clasifica un cierre: closed solo si la diferencia es exactamente cero.
func Reconcile(counted, system decimal.Decimal) (decimal.Decimal, ShiftStatus) {
	diff := counted.Sub(system)
	if diff.IsZero() {
		return diff, ShiftClosed
	}
	return diff, ShiftPendingClose
}

// Close cierra un turno abierto con el saldo contado y el saldo del sistema.
// No modifica el turno si devuelve error.
func (s *Shift) Close(counted, system decimal.Decimal, now time.Time) error {
	if s.Status != ShiftOpen {
		return domain.ErrShiftNotOpen
	}
	if counted.IsNegative() {
		return fmt.Errorf("%w: closing_balance no puede ser negativo", domain.ErrInvalidInput)
	}
	diff, status := Reconcile(counted, system)
	s.ClosingBalance = &counted
	s.SystemBalance = &system
	s.Difference = &diff
	s.Status = status
	s.ClosedAt = &now
	s.UpdatedAt = now
	return nil
}

// Rebalance corrige el saldo contado de un turno pending_close y lo vuelve a clasificar
// contra el mismo saldo del sistema.
func (s *Shift) Rebalance(counted decimal.Decimal, now time.Time) error {
	if s.Status != ShiftPendingClose || s.SystemBalance == nil {
		return domain.ErrShiftNotPending
	}
	if counted.IsNegative() {
		return fmt.Errorf("%w: closing_balance no puede ser negativo", domain.ErrInvalidInput)
	}
	diff, status := Reconcile(counted, *s.SystemBalance)
	s.ClosingBalance = &counted
	s.Difference = &diff
	s.Status = status
	s.UpdatedAt = now
	return nil
}

// IsOpen indica si el turno sigue abierto.
func (s *Shift) IsOpen() bool {
	return s != nil && s.Status == ShiftOpen
}

// ShiftFilter filtros del listado de turnos.
type ShiftFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	Cashier    string // kasir: id o nombre
	Status     ShiftStatus
	Difference string // selisih: zero | negative | positive
	Page       int
	Limit      int
}

// Filtros de diferencia aceptados.
const (
	DifferenceZero     = "zero"
	DifferenceNegative = "negative"
	DifferencePositive = "positive"
)

// Normalize aplica valores por defecto y valida el filtro.
func (f *ShiftFilter) Normalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, f.Status)
	}
	switch f.Difference {
	case "", DifferenceZero, DifferenceNegative, DifferencePositive:
	default:
		return fmt.Errorf("%w: selisih %q", domain.ErrInvalidInput, f.Difference)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return fmt.Errorf("%w: date_to anterior a date_from", domain.ErrInvalidInput)
	}
	return nil
}

// Offset posición del primer registro de la página.
func (f ShiftFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
