package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/products/:id/adjustments.
// Amount se decodifica en crudo: un valor no entero debe responder INVALID_AMOUNT, no INVALID_BODY.
type AdjustStockRequest struct {
	Amount    json.RawMessage `json:"amount" swaggertype:"integer"`
	Direction string          `json:"direction"` // in | out
	Reason    string          `json:"reason"`
}

// RecordSaleRequest body para POST /api/sales.
type RecordSaleRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity" swaggertype:"integer"`
}

// MovementResponse una entrada del ledger.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Change    int       `json:"change"`
	Reason    string    `json:"reason"`
	SaleID    *string   `json:"sale_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementListResponse últimos movimientos de un producto (el más reciente primero).
type MovementListResponse struct {
	ProductID string             `json:"product_id"`
	Items     []MovementResponse `json:"items"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceResponse factura de una venta: la venta, el producto y el total.
type InvoiceResponse struct {
	Sale        SaleResponse    `json:"sale"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Total       decimal.Decimal `json:"total"` // quantity * price_at_sale
	Digest      string          `json:"digest"` // SHA-256 del XML canónico de la factura
}
