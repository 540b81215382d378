package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale registra una venta. PriceAtSale es una foto del precio al momento de vender
// y nunca se recalcula desde Product.Price.
type Sale struct {
	ID          string
	ProductID   string
	Quantity    int
	PriceAtSale decimal.Decimal
	CreatedAt   time.Time
}

// Total devuelve quantity * price_at_sale.
func (s *Sale) Total() decimal.Decimal {
	return s.PriceAtSale.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
