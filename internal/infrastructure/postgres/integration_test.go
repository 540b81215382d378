package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Requiere TEST_DATABASE_URL apuntando a una base desechable; si no está definida se omite.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE stock_movements, sales, products`)
	require.NoError(t, err)
	return pool
}

func createProduct(t *testing.T, repo repository.ProductRepository, sku, price string, qty int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Producto " + sku,
		SKU:       sku,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPostgres_ProductRepository(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := createProduct(t, repo, "PG-1", "9.99", 5)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 5, got.Quantity)

	dup := &entity.Product{ID: uuid.New().String(), Name: "otro", SKU: "PG-1", Price: decimal.Zero}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateSKU)

	_, err = repo.GetByID(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.SoftDelete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	kept, err := repo.GetIncludingDeleted(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept.DeletedAt)

	// El SKU queda libre tras la baja
	createProduct(t, repo, "PG-1", "1.00", 0)
}

func TestPostgres_ListFiltroYOrden(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	createProduct(t, repo, "A-1", "3.00", 7)
	createProduct(t, repo, "B-1", "1.00", 2)
	createProduct(t, repo, "C_1", "2.00", 9)

	list, err := repo.List(ctx, repository.ProductFilter{Sort: repository.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "B-1", list[0].SKU)

	// "_" es literal, no comodín
	list, err = repo.List(ctx, repository.ProductFilter{Query: "_"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "C_1", list[0].SKU)
}

func TestPostgres_LedgerConcurrente(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	uc := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), productRepo, movRepo, nil, nil)

	p := createProduct(t, productRepo, "CONC-1", "2.50", 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordSale(ctx, inventory.RecordSaleInput{ProductID: p.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			var insufficient *domain.InsufficientStockError
			switch {
			case err == nil:
				ok++
			case errors.As(err, &insufficient):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, rejected)

	got, err := productRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	movs, err := movRepo.ListByProduct(ctx, p.ID, 100)
	require.NoError(t, err)
	assert.Len(t, movs, 10)
}

func TestPostgres_IdempotencyKey(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	uc := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), productRepo, movRepo, nil, nil)

	p := createProduct(t, productRepo, "IDEM-1", "1.00", 0)
	in := inventory.AdjustStockInput{ProductID: p.ID, Amount: 4, Direction: entity.DirectionIn, Reason: "Restock", IdempotencyKey: "k-1"}

	first, err := uc.AdjustStock(ctx, in)
	require.NoError(t, err)
	second, err := uc.AdjustStock(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := productRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}
