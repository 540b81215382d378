package inventory

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AdjustStock registra una entrada (in) o salida (out) manual.
//
// Orden de validación: producto inexistente (ErrNotFound), cantidad fuera de
// 1..entity.MaxQuantity (ErrInvalidAmount), stock resultante negativo (*InsufficientStockError con el stock actual).
// La cantidad nueva y el movimiento se escriben en la misma transacción, con la fila del
// producto bloqueada para que dos ajustes concurrentes no partan de la misma cantidad.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*entity.StockMovement, error) {
	if _, err := uc.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if in.Amount <= 0 || in.Amount > entity.MaxQuantity {
		return nil, domain.ErrInvalidAmount
	}
	if !in.Direction.Valid() {
		return nil, domain.ErrInvalidInput
	}
	reason := strings.TrimSpace(in.Reason)
	if utf8.RuneCountInString(reason) > entity.MovementReasonMaxLen {
		return nil, domain.ErrInvalidInput
	}

	var (
		result   *entity.StockMovement
		newQty   int
		replayed bool
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		// Bloquea la fila del producto (SELECT FOR UPDATE)
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		prior, err := lookupReplay(ctx, movRepo, in.IdempotencyKey, product.ID)
		if err != nil {
			return err
		}
		if prior != nil {
			if prior.SaleID != nil {
				return domain.ErrConflict
			}
			result, newQty, replayed = prior, product.Quantity, true
			return nil
		}

		change, qty, err := inventory.ApplyAdjustment(product.Quantity, in.Amount, in.Direction)
		if err != nil {
			return err
		}
		if err := productRepo.SetQuantity(ctx, product.ID, qty); err != nil {
			return err
		}
		mov := newMovement(product.ID, change, reason, in.IdempotencyKey, uc.now())
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result, newQty = mov, qty
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		uc.log.Ctx(ctx).Debug().Str("product_id", in.ProductID).Str("idempotency_key", in.IdempotencyKey).
			Msg("ajuste repetido, se devuelve el movimiento original")
		return result, nil
	}

	uc.log.Ctx(ctx).Debug().
		Str("product_id", result.ProductID).
		Int("change", result.Change).
		Int("quantity", newQty).
		Msg("ajuste de stock registrado")

	uc.publish(ctx, LedgerEvent{
		Type:       EventStockAdjusted,
		ProductID:  result.ProductID,
		MovementID: result.ID,
		Change:     result.Change,
		Quantity:   newQty,
		Reason:     result.Reason,
		OccurredAt: result.CreatedAt,
	})
	return result, nil
}
