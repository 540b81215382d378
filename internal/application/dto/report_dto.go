package dto

import "github.com/shopspring/decimal"

// SummaryResponse estadísticas del inventario actual.
type SummaryResponse struct {
	TotalProducts int             `json:"total_products"`
	TotalStock    int             `json:"total_stock"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// LowStockItemDTO producto bajo el umbral de stock con la cantidad sugerida de reposición.
type LowStockItemDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	SuggestedOrderQty int             `json:"suggested_order_qty"` // hasta 1.5x el umbral
	EstimatedValue    decimal.Decimal `json:"estimated_value"`     // SuggestedOrderQty * price
	Priority          int             `json:"priority"`            // 1 = más urgente
}
