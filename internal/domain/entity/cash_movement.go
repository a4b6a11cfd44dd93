package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de caja dentro de un turno.
type MovementType string

const (
	MovementSale    MovementType = "sale"
	MovementCashIn  MovementType = "cash_in"
	MovementCashOut MovementType = "cash_out"
	MovementVoid    MovementType = "void"
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementCashIn, MovementCashOut, MovementVoid:
		return true
	}
	return false
}

// CashMovement evento inmutable del libro de caja de un turno.
// Nunca se modifica ni se borra: una anulación es un movimiento void.
type CashMovement struct {
	ID          string
	ShiftID     string
	Type        MovementType
	Amount      decimal.Decimal // siempre positivo; el signo lo da Type
	Description string
	Reference   string
	CreatedAt   time.Time
}

// Signed devuelve el efecto del movimiento sobre el saldo del sistema.
func (m CashMovement) Signed() decimal.Decimal {
	switch m.Type {
	case MovementCashOut, MovementVoid:
		return m.Amount.Neg()
	default:
		return m.Amount
	}
}

// SystemBalance saldo esperado en caja: saldo inicial + suma con signo de los movimientos.
func SystemBalance(opening decimal.Decimal, movements []CashMovement) decimal.Decimal {
	total := opening
	for _, m := range movements {
		total = total.Add(m.Signed())
	}
	return total
}
