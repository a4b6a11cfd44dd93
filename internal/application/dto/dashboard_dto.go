package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso calculados por el backend.
type DashboardSummaryDTO struct {
	TodaySales       decimal.Decimal `json:"today_sales"`
	TodayTransaction int             `json:"today_transactions"`
	MonthlySales     decimal.Decimal `json:"monthly_sales"`
	MonthlyPurchases decimal.Decimal `json:"monthly_purchases"`
	LowStockCount    int             `json:"low_stock_count"`
	OpenShifts       int             `json:"open_shifts"`
	TopProducts      []TopProductDTO `json:"top_products"`
	DateLabel        string          `json:"date_label"` // ej. "Oktober 2026"
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
