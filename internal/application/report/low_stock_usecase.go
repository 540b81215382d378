package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: productos bajo el umbral de stock
// con la cantidad sugerida de pedido.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(productRepo repository.ProductRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo}
}

// GenerateLowStockList devuelve los productos con quantity < umbral. La cantidad sugerida
// lleva el stock a 1.5 veces el umbral. Orden: menor stock primero, luego mayor valor del pedido.
func (uc *LowStockUseCase) GenerateLowStockList(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{Sort: repository.SortQtyAsc})
	if err != nil {
		return nil, err
	}

	idealStock := decimal.NewFromInt(inventory.LowStockThreshold).Mul(decimal.NewFromFloat(1.5)).Ceil()
	items := make([]dto.LowStockItemDTO, 0)
	for _, p := range products {
		if p.Quantity >= inventory.LowStockThreshold {
			continue
		}
		suggested := idealStock.Sub(decimal.NewFromInt(int64(p.Quantity)))
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			Quantity:          p.Quantity,
			SuggestedOrderQty: int(suggested.IntPart()),
			EstimatedValue:    suggested.Mul(p.Price),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.EstimatedValue.GreaterThan(b.EstimatedValue)
	})

	// Prioridad 1 = más urgente
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}
