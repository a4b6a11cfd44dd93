package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseMaster cabecera de una compra a proveedor.
type PurchaseMaster struct {
	ID         int64            `json:"id"`
	SupplierID int64            `json:"supplier_id"`
	InvoiceNo  string           `json:"invoice_no,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Total      decimal.Decimal  `json:"total"`
	Details    []PurchaseDetail `json:"details,omitempty"`
	Audit
}

// PurchaseDetail línea de una compra.
type PurchaseDetail struct {
	ID        int64           `json:"id,omitempty"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (p PurchaseMaster) RecordID() int64 { return p.ID }
