package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Nombres de constraints definidos en migrations/001_init.sql.
const (
	constraintProductSKU     = "products_sku_active_key"
	constraintIdempotencyKey = "stock_movements_idempotency_key_key"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx para que los repositorios funcionen dentro o fuera de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isInvalidText 22P02: p. ej. un id que no es UUID válido; se trata como inexistente.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// isOutOfRange 22003: un valor no cabe en la columna (p. ej. quantity > INTEGER).
func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22003"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// mapError traduce errores del driver a errores de dominio; lo no anticipado se envuelve como StorageError.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows), isInvalidText(err):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		switch constraintName(err) {
		case constraintProductSKU:
			return domain.ErrDuplicateSKU
		case constraintIdempotencyKey:
			return domain.ErrConflict
		}
	case isOutOfRange(err):
		return domain.ErrInvalidInput
	}
	return domain.NewStorageError(op, err)
}

// likePattern escapa comodines de LIKE y envuelve el texto en %...%.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
