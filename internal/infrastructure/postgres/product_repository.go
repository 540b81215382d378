package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, price, quantity, created_at, updated_at, deleted_at`

// orderBy cláusulas permitidas por criterio; nunca se interpola texto del usuario.
var orderBy = map[repository.ProductSort]string{
	repository.SortNone:      "created_at, id",
	repository.SortNameAsc:   "name ASC, created_at, id",
	repository.SortNameDesc:  "name DESC, created_at, id",
	repository.SortPriceAsc:  "price ASC, created_at, id",
	repository.SortPriceDesc: "price DESC, created_at, id",
	repository.SortQtyAsc:    "quantity ASC, created_at, id",
	repository.SortQtyDesc:   "quantity DESC, created_at, id",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. El índice único parcial sobre sku rechaza duplicados activos.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Price, product.Quantity,
		product.CreatedAt, product.UpdatedAt,
	)
	return mapError("insert product", err)
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get product", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get product for update", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto activo por SKU (sensible a mayúsculas).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		return nil, mapError("get product by sku", err)
	}
	return p, nil
}

// GetIncludingDeleted obtiene un producto por ID aunque esté dado de baja.
func (r *ProductRepo) GetIncludingDeleted(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get product", err)
	}
	return p, nil
}

// Update sobrescribe name, sku, price y quantity. El CHECK de la tabla impide quantity < 0.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, price = $4, quantity = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Price, product.Quantity, product.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity actualiza solo la cantidad (usado por el motor de inventario dentro de la tx).
func (r *ProductRepo) SetQuantity(ctx context.Context, id string, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id, quantity,
	)
	if err != nil {
		return mapError("update product quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el producto como dado de baja; movimientos y ventas se conservan.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos activos filtrando por name/sku (ILIKE) y ordenando por el criterio dado.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL`
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		query += ` AND (name ILIKE $1 OR sku ILIKE $1)`
	}
	order, ok := orderBy[filter.Sort]
	if !ok {
		order = orderBy[repository.SortNone]
	}
	query += fmt.Sprintf(" ORDER BY %s", order)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}
	return list, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
