package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// RecordSale registra una venta y descuenta el inventario.
//
// En una sola transacción: crea la venta con price_at_sale = precio actual del producto,
// resta la cantidad y guarda el movimiento {change: -quantity, reason: "Sale"} enlazado a la venta.
// Devuelve la venta creada (su ID se usa para la factura).
func (uc *LedgerUseCase) RecordSale(ctx context.Context, in RecordSaleInput) (*entity.Sale, error) {
	if _, err := uc.productRepo.GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 || in.Quantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}

	var (
		sale     *entity.Sale
		mov      *entity.StockMovement
		newQty   int
		replayed bool
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		prior, err := lookupReplay(ctx, movRepo, in.IdempotencyKey, product.ID)
		if err != nil {
			return err
		}
		if prior != nil {
			if prior.SaleID == nil {
				return domain.ErrConflict
			}
			sale, err = saleRepo.GetByID(ctx, *prior.SaleID)
			if err != nil {
				return err
			}
			replayed = true
			return nil
		}

		qty, err := inventory.ApplySale(product.Quantity, in.Quantity)
		if err != nil {
			return err
		}

		now := uc.now()
		// 1) Venta con el precio congelado
		s := &entity.Sale{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			PriceAtSale: product.Price,
			CreatedAt:   now,
		}
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}
		// 2) Descuenta inventario
		if err := productRepo.SetQuantity(ctx, product.ID, qty); err != nil {
			return err
		}
		// 3) Movimiento del ledger enlazado a la venta
		m := newMovement(product.ID, -in.Quantity, entity.SaleMovementReason, in.IdempotencyKey, now)
		m.SaleID = &s.ID
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
		sale, mov, newQty = s, m, qty
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		uc.log.Ctx(ctx).Debug().Str("sale_id", sale.ID).Str("idempotency_key", in.IdempotencyKey).
			Msg("venta repetida, se devuelve la venta original")
		return sale, nil
	}

	uc.log.Ctx(ctx).Debug().
		Str("sale_id", sale.ID).
		Str("product_id", sale.ProductID).
		Int("quantity", sale.Quantity).
		Str("price_at_sale", sale.PriceAtSale.StringFixed(2)).
		Msg("venta registrada")

	uc.publish(ctx, LedgerEvent{
		Type:       EventSaleRecorded,
		ProductID:  sale.ProductID,
		MovementID: mov.ID,
		SaleID:     sale.ID,
		Change:     mov.Change,
		Quantity:   newQty,
		Reason:     mov.Reason,
		OccurredAt: sale.CreatedAt,
	})
	return sale, nil
}
