package entity

import "github.com/shopspring/decimal"

// Stock movimiento/ajuste de existencias de un producto.
type Stock struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Type      string          `json:"type"` // in | out | adjustment
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	Audit
}

func (s Stock) RecordID() int64 { return s.ID }
