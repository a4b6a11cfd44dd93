package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenShiftRequest apertura de turno por el propio cajero.
type OpenShiftRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"required,gte=0"`
}

// CreateShiftRequest apertura de turno en nombre de un cajero (administración).
type CreateShiftRequest struct {
	UserID         string          `json:"user_id" validate:"required"`
	UserName       string          `json:"user_name,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"required,gte=0"`
}

// CloseShiftRequest cierre con el saldo contado en caja.
type CloseShiftRequest struct {
	ShiftID        string          `json:"shift_id,omitempty"`
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"required,gte=0"`
}

// UpdateShiftBalanceRequest corrección del saldo contado de un turno pendiente.
type UpdateShiftBalanceRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"required,gte=0"`
}

// RecordMovementRequest movimiento de caja manual o venta.
type RecordMovementRequest struct {
	Type        string          `json:"type" validate:"required,oneof=sale cash_in cash_out void"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
}

// ShiftResponse salida de un turno.
type ShiftResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	UserName       string           `json:"user_name,omitempty"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	SystemBalance  *decimal.Decimal `json:"system_balance,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	Status         string           `json:"status"`
}

// ShiftStatusResponse estado del turno actual del cajero (no_shift si no hay).
type ShiftStatusResponse struct {
	Status  string          `json:"status"`
	Balance decimal.Decimal `json:"balance"`
	Shift   *ShiftResponse  `json:"shift,omitempty"`
}

// CashMovementResponse salida de un movimiento.
type CashMovementResponse struct {
	ID          string          `json:"id"`
	ShiftID     string          `json:"shift_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
