package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, change, reason, sale_id, idempotency_key, created_at`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, change, reason, sale_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.Change, movement.Reason,
		movement.SaleID, movement.IdempotencyKey, movement.CreatedAt,
	)
	return mapError("insert stock movement", err)
}

// ListByProduct lista los últimos movimientos de un producto, el más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, seq DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan stock movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list stock movements", err)
	}
	return list, nil
}

// GetByIdempotencyKey obtiene el movimiento registrado con esa clave.
func (r *StockMovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE idempotency_key = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, key))
	if err != nil {
		return nil, mapError("get stock movement by key", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	if err := row.Scan(&m.ID, &m.ProductID, &m.Change, &m.Reason, &m.SaleID, &m.IdempotencyKey, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
