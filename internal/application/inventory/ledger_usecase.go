package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const (
	defaultMovementLimit = 10
	maxMovementLimit     = 100
)

// LedgerUseCase es el motor de inventario: aplica ajustes y ventas escribiendo la cantidad
// y su entrada del ledger en una sola transacción (SELECT FOR UPDATE + Commit/Rollback).
// No guarda estado entre llamadas; toda la consistencia vive en la transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	publisher   EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. publisher puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		publisher:   publisher,
		log:         log.Named("inventory"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// AdjustStockInput entrada para un ajuste manual de stock.
type AdjustStockInput struct {
	ProductID      string
	Amount         int
	Direction      entity.Direction
	Reason         string
	IdempotencyKey string // opcional
}

// RecordSaleInput entrada para registrar una venta.
type RecordSaleInput struct {
	ProductID      string
	Quantity       int
	IdempotencyKey string // opcional
}

// ListRecentMovements devuelve los últimos movimientos de un producto, el más reciente primero.
// limit <= 0 usa 10; el máximo es 100.
func (uc *LedgerUseCase) ListRecentMovements(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}
	return uc.movRepo.ListByProduct(ctx, productID, limit)
}

// lookupReplay busca un movimiento previo con la misma clave de idempotencia.
// Devuelve (nil, nil) si la clave no se ha usado; ErrConflict si se usó para otro producto.
func lookupReplay(ctx context.Context, movRepo repository.StockMovementRepository, key, productID string) (*entity.StockMovement, error) {
	if key == "" {
		return nil, nil
	}
	prior, err := movRepo.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if prior.ProductID != productID {
		return nil, domain.ErrConflict
	}
	return prior, nil
}

func newMovement(productID string, change int, reason, key string, now time.Time) *entity.StockMovement {
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Change:    change,
		Reason:    reason,
		CreatedAt: now,
	}
	if key != "" {
		mov.IdempotencyKey = &key
	}
	return mov
}

// publish envía el evento ya confirmado. Un fallo aquí no deshace nada: solo se registra.
func (uc *LedgerUseCase) publish(ctx context.Context, ev LedgerEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Ctx(ctx).Warn().Err(err).
			Str("type", ev.Type).
			Str("product_id", ev.ProductID).
			Str("movement_id", ev.MovementID).
			Msg("no se pudo publicar evento del ledger")
	}
}
