package report

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SummaryUseCase calcula las estadísticas del inventario activo.
type SummaryUseCase struct {
	productRepo repository.ProductRepository
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(productRepo repository.ProductRepository) *SummaryUseCase {
	return &SummaryUseCase{productRepo: productRepo}
}

// GetSummary total de productos, unidades, valor (price * quantity, exacto) y productos bajo el umbral.
func (uc *SummaryUseCase) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	list, err := uc.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	s := inventory.Summarize(list)
	return &dto.SummaryResponse{
		TotalProducts: s.TotalProducts,
		TotalStock:    s.TotalStock,
		TotalValue:    s.TotalValue,
		LowStockCount: s.LowStockCount,
	}, nil
}
