package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
)

// StockMovementRepo ledger de movimientos en memoria (solo inserción).
type StockMovementRepo struct {
	s  *Store
	tx *tx
}

func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, cloneMovement(movement))
		return nil
	}
	return r.s.inTx(ctx, func(t *tx) error {
		t.movements = append(t.movements, cloneMovement(movement))
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("list stock movements", err)
	}
	var list []*entity.StockMovement
	if r.tx != nil {
		for i := len(r.tx.movements) - 1; i >= 0 && len(list) < limit; i-- {
			if m := r.tx.movements[i]; m.ProductID == productID {
				list = append(list, cloneMovement(m))
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.movements) - 1; i >= 0 && len(list) < limit; i-- {
		if m := r.s.movements[i]; m.ProductID == productID {
			list = append(list, cloneMovement(m))
		}
	}
	return list, nil
}

func (r *StockMovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("get stock movement", err)
	}
	if r.tx != nil {
		for _, m := range r.tx.movements {
			if m.IdempotencyKey != nil && *m.IdempotencyKey == key {
				return cloneMovement(m), nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m := r.s.committedKey(key); m != nil {
		return cloneMovement(m), nil
	}
	return nil, domain.ErrNotFound
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx *tx
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	cp := *sale
	if r.tx != nil {
		r.tx.sales = append(r.tx.sales, &cp)
		return nil
	}
	return r.s.inTx(ctx, func(t *tx) error {
		t.sales = append(t.sales, &cp)
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("get sale", err)
	}
	if r.tx != nil {
		for _, s := range r.tx.sales {
			if s.ID == id {
				cp := *s
				return &cp, nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}
