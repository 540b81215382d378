package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"sin filas", pgx.ErrNoRows, domain.ErrNotFound},
		{"uuid inválido", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
		{"sku duplicado", &pgconn.PgError{Code: "23505", ConstraintName: constraintProductSKU}, domain.ErrDuplicateSKU},
		{"clave de idempotencia repetida", &pgconn.PgError{Code: "23505", ConstraintName: constraintIdempotencyKey}, domain.ErrConflict},
		{"pk de venta repetida", &pgconn.PgError{Code: "23505", ConstraintName: "sales_pkey"}, domain.ErrStorage},
		{"pk de movimiento repetida", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "stock_movements_pkey"}), domain.ErrStorage},
		{"fuera de rango", &pgconn.PgError{Code: "22003"}, domain.ErrInvalidInput},
		{"conexión", errors.New("connection reset"), domain.ErrStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}
	assert.NoError(t, mapError("op", nil))
}

func TestMapError_PKAjenaNoEsSKUDuplicado(t *testing.T) {
	err := mapError("insert product", &pgconn.PgError{Code: "23505", ConstraintName: "sales_pkey"})
	assert.False(t, errors.Is(err, domain.ErrDuplicateSKU))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}
