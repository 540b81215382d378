package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto del ledger de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve hasta limit movimientos, el más reciente primero.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
	// GetByIdempotencyKey devuelve domain.ErrNotFound si la clave no se ha usado.
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.StockMovement, error)
}
