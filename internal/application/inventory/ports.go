package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// EventPublisher publica eventos del ledger ya confirmados (p. ej. Kafka).
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
