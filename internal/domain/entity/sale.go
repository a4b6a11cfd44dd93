package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleMaster cabecera de una venta registrada en caja.
type SaleMaster struct {
	ID         int64           `json:"id"`
	ShiftID    int64           `json:"shift_id,omitempty"`
	UserID     int64           `json:"user_id,omitempty"`
	InvoiceNo  string          `json:"invoice_no,omitempty"`
	Date       *time.Time      `json:"date,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Change     decimal.Decimal `json:"change"`
	PaymentVia string          `json:"payment_method,omitempty"`
	Details    []SaleDetail    `json:"details,omitempty"`
	Audit
}

// SaleDetail línea de una venta.
type SaleDetail struct {
	ID        int64           `json:"id,omitempty"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (s SaleMaster) RecordID() int64 { return s.ID }
