package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LowStockThreshold productos con quantity < 10 se consideran en stock bajo. No es configurable.
const LowStockThreshold = 10

// Summary estadísticas del inventario actual.
type Summary struct {
	TotalProducts int
	TotalStock    int
	TotalValue    decimal.Decimal // Σ quantity * price, exacto al centavo
	LowStockCount int
}

// Summarize agrega el estado actual de los productos. Función pura; los productos
// dados de baja se ignoran.
func Summarize(products []*entity.Product) Summary {
	s := Summary{TotalValue: decimal.Zero}
	for _, p := range products {
		if p == nil || p.IsDeleted() {
			continue
		}
		s.TotalProducts++
		s.TotalStock += p.Quantity
		s.TotalValue = s.TotalValue.Add(p.StockValue())
		if p.Quantity < LowStockThreshold {
			s.LowStockCount++
		}
	}
	return s
}
