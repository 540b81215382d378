// Package memory implementa el ledger en memoria con la misma semántica transaccional
// que el adaptador PostgreSQL: bloqueo por fila de producto (equivalente a SELECT FOR UPDATE)
// y escrituras diferidas que solo se aplican en el commit.
//
// Se usa con STORE_DRIVER=memory (desarrollo) y como doble de pruebas del motor.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

var errForeignKey = errors.New("violates foreign key constraint")

// Store estado confirmado del ledger.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	order     []string // orden de creación
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		sales:    make(map[string]*entity.Sale),
		locks:    make(map[string]chan struct{}),
	}
}

// ProductRepository repositorio fuera de transacción (autocommit por operación).
func (s *Store) ProductRepository() *ProductRepo { return &ProductRepo{s: s} }

// StockMovementRepository repositorio de movimientos fuera de transacción.
func (s *Store) StockMovementRepository() *StockMovementRepo { return &StockMovementRepo{s: s} }

// SaleRepository repositorio de ventas fuera de transacción.
func (s *Store) SaleRepository() *SaleRepo { return &SaleRepo{s: s} }

// Run ejecuta fn con repos atados a una transacción; Commit si fn devuelve nil, descarte si no.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.inTx(ctx, func(t *tx) error {
		return fn(&ProductRepo{s: s, tx: t}, &StockMovementRepo{s: s, tx: t}, &SaleRepo{s: s, tx: t})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("begin transaction", err)
	}
	t := newTx(s)
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("commit transaction", err)
	}
	return s.commit(t)
}

func (s *Store) rowLock(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

// commit valida restricciones (SKU único, FK, clave de idempotencia única) y aplica lo escrito en la tx.
func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.productOrder {
		p := t.products[id]
		if p.IsDeleted() {
			continue
		}
		if s.skuTaken(p.SKU, id, t) {
			return domain.ErrDuplicateSKU
		}
	}
	keys := make(map[string]struct{})
	for _, m := range t.movements {
		if !s.productExists(m.ProductID, t) {
			return domain.NewStorageError("insert stock movement", errForeignKey)
		}
		if m.IdempotencyKey == nil {
			continue
		}
		if _, dup := keys[*m.IdempotencyKey]; dup || s.committedKey(*m.IdempotencyKey) != nil {
			return domain.ErrConflict
		}
		keys[*m.IdempotencyKey] = struct{}{}
	}
	for _, sale := range t.sales {
		if !s.productExists(sale.ProductID, t) {
			return domain.NewStorageError("insert sale", errForeignKey)
		}
	}

	for _, id := range t.productOrder {
		if _, exists := s.products[id]; !exists {
			s.order = append(s.order, id)
		}
		s.products[id] = cloneProduct(t.products[id])
	}
	for _, sale := range t.sales {
		cp := *sale
		s.sales[sale.ID] = &cp
	}
	for _, m := range t.movements {
		s.movements = append(s.movements, cloneMovement(m))
	}
	return nil
}

// skuTaken: llamar con s.mu tomado.
func (s *Store) skuTaken(sku, exceptID string, t *tx) bool {
	for id, p := range s.products {
		if id == exceptID || p.IsDeleted() || p.SKU != sku {
			continue
		}
		if staged, ok := t.products[id]; ok && (staged.IsDeleted() || staged.SKU != sku) {
			continue
		}
		return true
	}
	for id, p := range t.products {
		if id != exceptID && !p.IsDeleted() && p.SKU == sku {
			return true
		}
	}
	return false
}

func (s *Store) productExists(id string, t *tx) bool {
	if _, ok := t.products[id]; ok {
		return true
	}
	_, ok := s.products[id]
	return ok
}

func (s *Store) committedKey(key string) *entity.StockMovement {
	for _, m := range s.movements {
		if m.IdempotencyKey != nil && *m.IdempotencyKey == key {
			return m
		}
	}
	return nil
}

// tx escrituras pendientes y filas bloqueadas de una transacción.
type tx struct {
	s            *Store
	held         map[string]chan struct{}
	products     map[string]*entity.Product
	productOrder []string
	movements    []*entity.StockMovement
	sales        []*entity.Sale
}

func newTx(s *Store) *tx {
	return &tx{
		s:        s,
		held:     make(map[string]chan struct{}),
		products: make(map[string]*entity.Product),
	}
}

// lock bloquea la fila del producto hasta el fin de la transacción.
func (t *tx) lock(ctx context.Context, id string) error {
	if _, ok := t.held[id]; ok {
		return nil
	}
	l := t.s.rowLock(id)
	select {
	case l <- struct{}{}:
		t.held[id] = l
		return nil
	case <-ctx.Done():
		return domain.NewStorageError("lock product", ctx.Err())
	}
}

func (t *tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
}

func (t *tx) stageProduct(p *entity.Product) {
	if _, ok := t.products[p.ID]; !ok {
		t.productOrder = append(t.productOrder, p.ID)
	}
	t.products[p.ID] = cloneProduct(p)
}

// product lee la versión visible para la tx (pendiente o confirmada).
func (t *tx) product(id string) (*entity.Product, bool) {
	if p, ok := t.products[id]; ok {
		return cloneProduct(p), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	p, ok := t.s.products[id]
	if !ok {
		return nil, false
	}
	return cloneProduct(p), true
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.DeletedAt != nil {
		d := *p.DeletedAt
		cp.DeletedAt = &d
	}
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	if m.SaleID != nil {
		v := *m.SaleID
		cp.SaleID = &v
	}
	if m.IdempotencyKey != nil {
		v := *m.IdempotencyKey
		cp.IdempotencyKey = &v
	}
	return &cp
}
