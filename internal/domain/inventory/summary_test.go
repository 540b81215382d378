package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func product(qty int, price string) *entity.Product {
	return &entity.Product{Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestSummarize_Vacio(t *testing.T) {
	s := inventory.Summarize(nil)
	assert.Equal(t, 0, s.TotalProducts)
	assert.Equal(t, 0, s.TotalStock)
	assert.True(t, s.TotalValue.IsZero())
	assert.Equal(t, 0, s.LowStockCount)
}

func TestSummarize_Totales(t *testing.T) {
	deleted := time.Now()
	gone := product(100, "1.00")
	gone.DeletedAt = &deleted

	s := inventory.Summarize([]*entity.Product{
		product(15, "9.99"),
		product(9, "0.10"),
		product(10, "2.50"),
		gone,
	})

	assert.Equal(t, 3, s.TotalProducts)
	assert.Equal(t, 34, s.TotalStock)
	assert.Equal(t, "175.75", s.TotalValue.StringFixed(2))
	assert.Equal(t, 1, s.LowStockCount, "solo quantity < 10 cuenta como stock bajo")
}

// La suma de muchos 0.10 debe ser exacta al centavo.
func TestSummarize_SinDerivaDecimal(t *testing.T) {
	products := make([]*entity.Product, 0, 10000)
	for i := 0; i < 10000; i++ {
		products = append(products, product(1, "0.10"))
	}
	s := inventory.Summarize(products)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(1000)), "got %s", s.TotalValue)
}
