package inventory

import "time"

// Tipos de evento del ledger.
const (
	EventStockAdjusted = "stock.adjusted"
	EventSaleRecorded  = "sale.recorded"
)

// LedgerEvent se publica después del commit de un ajuste o una venta.
type LedgerEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	MovementID string    `json:"movement_id"`
	SaleID     string    `json:"sale_id,omitempty"`
	Change     int       `json:"change"`
	Quantity   int       `json:"quantity"` // cantidad resultante del producto
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
