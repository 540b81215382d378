package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta con su precio congelado.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, product_id, quantity, price_at_sale, created_at) VALUES ($1, $2, $3, $4, $5)`,
		sale.ID, sale.ProductID, sale.Quantity, sale.PriceAtSale, sale.CreatedAt,
	)
	return mapError("insert sale", err)
}

// GetByID obtiene una venta por ID (aunque su producto esté dado de baja).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx,
		`SELECT id, product_id, quantity, price_at_sale, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.ProductID, &s.Quantity, &s.PriceAtSale, &s.CreatedAt)
	if err != nil {
		return nil, mapError("get sale", err)
	}
	return &s, nil
}
