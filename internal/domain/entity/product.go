package entity

import "github.com/shopspring/decimal"

// Product producto vendible del catálogo.
type Product struct {
	ID            int64           `json:"id"`
	CategoryID    int64           `json:"category_id"`
	SupplierID    int64           `json:"supplier_id,omitempty"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Stock         decimal.Decimal `json:"stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
	Audit
}

func (p Product) RecordID() int64 { return p.ID }
