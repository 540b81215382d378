package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Con tx == nil cada escritura es su propia transacción.
type ProductRepo struct {
	s  *Store
	tx *tx
}

// write ejecuta fn en la tx actual o en una transacción propia (autocommit).
func (r *ProductRepo) write(ctx context.Context, fn func(t *tx) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.s.inTx(ctx, fn)
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.write(ctx, func(t *tx) error {
		if _, exists := t.product(product.ID); exists {
			return domain.ErrConflict
		}
		t.stageProduct(product)
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("get product", err)
	}
	var (
		p  *entity.Product
		ok bool
	)
	if r.tx != nil {
		p, ok = r.tx.product(id)
	} else {
		p, ok = r.committed(id)
	}
	if !ok || p.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.tx == nil {
		return r.GetByID(ctx, id)
	}
	if err := r.tx.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	list, err := r.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) GetIncludingDeleted(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("get product", err)
	}
	var (
		p  *entity.Product
		ok bool
	)
	if r.tx != nil {
		p, ok = r.tx.product(id)
	} else {
		p, ok = r.committed(id)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.write(ctx, func(t *tx) error {
		if err := t.lock(ctx, product.ID); err != nil {
			return err
		}
		current, ok := t.product(product.ID)
		if !ok || current.IsDeleted() {
			return domain.ErrNotFound
		}
		current.Name = product.Name
		current.SKU = product.SKU
		current.Price = product.Price
		current.Quantity = product.Quantity
		current.UpdatedAt = product.UpdatedAt
		t.stageProduct(current)
		return nil
	})
}

func (r *ProductRepo) SetQuantity(ctx context.Context, id string, quantity int) error {
	return r.write(ctx, func(t *tx) error {
		if err := t.lock(ctx, id); err != nil {
			return err
		}
		current, ok := t.product(id)
		if !ok || current.IsDeleted() {
			return domain.ErrNotFound
		}
		current.Quantity = quantity
		current.UpdatedAt = time.Now()
		t.stageProduct(current)
		return nil
	})
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	return r.write(ctx, func(t *tx) error {
		if err := t.lock(ctx, id); err != nil {
			return err
		}
		current, ok := t.product(id)
		if !ok || current.IsDeleted() {
			return domain.ErrNotFound
		}
		now := time.Now()
		current.DeletedAt = &now
		current.UpdatedAt = now
		t.stageProduct(current)
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("list products", err)
	}
	r.s.mu.RLock()
	ids := make([]string, 0, len(r.s.order))
	ids = append(ids, r.s.order...)
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, id := range r.tx.productOrder {
			if _, ok := r.committed(id); !ok {
				ids = append(ids, id)
			}
		}
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	list := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		var (
			p  *entity.Product
			ok bool
		)
		if r.tx != nil {
			p, ok = r.tx.product(id)
		} else {
			p, ok = r.committed(id)
		}
		if !ok || p.IsDeleted() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			continue
		}
		list = append(list, p)
	}
	sortProducts(list, filter.Sort)
	return list, nil
}

func (r *ProductRepo) committed(id string) (*entity.Product, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, false
	}
	return cloneProduct(p), true
}

// sortProducts ordenamiento estable: empates conservan el orden de creación.
func sortProducts(list []*entity.Product, by repository.ProductSort) {
	var less func(a, b *entity.Product) bool
	switch by {
	case repository.SortNameAsc:
		less = func(a, b *entity.Product) bool { return a.Name < b.Name }
	case repository.SortNameDesc:
		less = func(a, b *entity.Product) bool { return a.Name > b.Name }
	case repository.SortPriceAsc:
		less = func(a, b *entity.Product) bool { return a.Price.LessThan(b.Price) }
	case repository.SortPriceDesc:
		less = func(a, b *entity.Product) bool { return a.Price.GreaterThan(b.Price) }
	case repository.SortQtyAsc:
		less = func(a, b *entity.Product) bool { return a.Quantity < b.Quantity }
	case repository.SortQtyDesc:
		less = func(a, b *entity.Product) bool { return a.Quantity > b.Quantity }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
