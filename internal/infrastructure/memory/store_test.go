package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func newProduct(id, sku string, qty int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID: id, Name: "Producto " + id, SKU: sku, Price: decimal.RequireFromString("1.25"),
		Quantity: qty, CreatedAt: now, UpdatedAt: now,
	}
}

func TestStore_RollbackDescartaEscrituras(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.ProductRepository().Create(ctx, newProduct("p1", "A", 5)))

	boom := errors.New("boom")
	err := s.Run(ctx, func(p repository.ProductRepository, m repository.StockMovementRepository, sr repository.SaleRepository) error {
		require.NoError(t, p.SetQuantity(ctx, "p1", 99))
		require.NoError(t, m.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Change: 94}))
		require.NoError(t, sr.Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", Quantity: 1}))

		// dentro de la tx se ven las escrituras pendientes
		got, err := p.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 99, got.Quantity)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.ProductRepository().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	movs, err := s.StockMovementRepository().ListByProduct(ctx, "p1", 10)
	require.NoError(t, err)
	assert.Empty(t, movs)
	_, err = s.SaleRepository().GetByID(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_EscriturasPendientesInvisiblesFuera(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.ProductRepository().Create(ctx, newProduct("p1", "A", 5)))

	inside := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx, func(p repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SaleRepository) error {
			_ = p.SetQuantity(ctx, "p1", 42)
			close(inside)
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}()

	<-inside
	got, err := s.ProductRepository().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	<-done

	got, err = s.ProductRepository().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 42, got.Quantity)
}

func TestStore_BloqueoRespetaContexto(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.ProductRepository().Create(ctx, newProduct("p1", "A", 5)))

	locked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Run(ctx, func(p repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SaleRepository) error {
			_, _ = p.GetForUpdate(ctx, "p1")
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked
	defer close(release)

	tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := s.Run(tctx, func(p repository.ProductRepository, _ repository.StockMovementRepository, _ repository.SaleRepository) error {
		_, err := p.GetForUpdate(tctx, "p1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_SKUUnicoEntreActivos(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	require.NoError(t, repo.Create(ctx, newProduct("p1", "A", 1)))

	assert.ErrorIs(t, repo.Create(ctx, newProduct("p2", "A", 1)), domain.ErrDuplicateSKU)
	assert.ErrorIs(t, repo.Create(ctx, newProduct("p1", "B", 1)), domain.ErrConflict)

	require.NoError(t, repo.SoftDelete(ctx, "p1"))
	assert.NoError(t, repo.Create(ctx, newProduct("p3", "A", 1)))

	_, err := repo.GetBySKU(ctx, "A")
	require.NoError(t, err)
	gone, err := repo.GetIncludingDeleted(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, gone.IsDeleted())
}

func TestStore_SKUUnicoConcurrente(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ok  int
		dup int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.ProductRepository().Create(ctx, newProduct(string(rune('a'+i)), "SAME", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateSKU):
				dup++
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, dup)
}

func TestStore_ClaveDeIdempotenciaUnica(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.ProductRepository().Create(ctx, newProduct("p1", "A", 1)))
	key := "k"
	movs := s.StockMovementRepository()

	require.NoError(t, movs.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Change: 1, IdempotencyKey: &key}))
	err := movs.Create(ctx, &entity.StockMovement{ID: "m2", ProductID: "p1", Change: 1, IdempotencyKey: &key})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := movs.GetByIdempotencyKey(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	_, err = movs.GetByIdempotencyKey(ctx, "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MovimientoSinProducto(t *testing.T) {
	s := NewStore()
	err := s.StockMovementRepository().Create(context.Background(), &entity.StockMovement{ID: "m1", ProductID: "nope", Change: 1})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestProductRepo_ListOrdenEstable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.ProductRepository()
	for i, sku := range []string{"C", "A", "B"} {
		p := newProduct(sku, sku, 5)
		p.Name = []string{"beta", "Alfa", "beta"}[i]
		require.NoError(t, repo.Create(ctx, p))
	}

	list, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, ids(list))

	list, err = repo.List(ctx, repository.ProductFilter{Sort: repository.SortNameDesc})
	require.NoError(t, err)
	// empate en "beta": se conserva el orden de creación
	assert.Equal(t, []string{"C", "B", "A"}, ids(list))

	list, err = repo.List(ctx, repository.ProductFilter{Query: "ALF"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(list))
}

func ids(list []*entity.Product) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}
