package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestApplyAdjustment_Entrada(t *testing.T) {
	change, newQty, err := inventory.ApplyAdjustment(5, 10, entity.DirectionIn)
	require.NoError(t, err)
	assert.Equal(t, 10, change)
	assert.Equal(t, 15, newQty)
}

func TestApplyAdjustment_SalidaHastaCero(t *testing.T) {
	change, newQty, err := inventory.ApplyAdjustment(7, 7, entity.DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, -7, change)
	assert.Equal(t, 0, newQty)
}

func TestApplyAdjustment_SalidaBajoCero(t *testing.T) {
	_, newQty, err := inventory.ApplyAdjustment(3, 4, entity.DirectionOut)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 3, newQty, "la cantidad no cambia si falla")

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 3, ise.Available)
	assert.Contains(t, err.Error(), "disponible 3")
}

func TestApplyAdjustment_CantidadNoPositiva(t *testing.T) {
	for _, amount := range []int{0, -1, -100} {
		_, _, err := inventory.ApplyAdjustment(10, amount, entity.DirectionIn)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount=%d", amount)
	}
}

func TestApplyAdjustment_SentidoDesconocido(t *testing.T) {
	_, _, err := inventory.ApplyAdjustment(10, 1, entity.Direction("sideways"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplySale(t *testing.T) {
	newQty, err := inventory.ApplySale(15, 3)
	require.NoError(t, err)
	assert.Equal(t, 12, newQty)

	_, err = inventory.ApplySale(15, 20)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 15")

	_, err = inventory.ApplySale(15, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyAdjustment_FueraDeRango(t *testing.T) {
	tests := []struct {
		name    string
		current int
		amount  int
		dir     entity.Direction
	}{
		{"entrada enorme", 5, math.MaxInt, entity.DirectionIn},
		{"salida enorme", 5, math.MaxInt, entity.DirectionOut},
		{"sobre el tope", 0, entity.MaxQuantity + 1, entity.DirectionIn},
		{"resultado sobre el tope", entity.MaxQuantity - 1, 2, entity.DirectionIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, newQty, err := inventory.ApplyAdjustment(tt.current, tt.amount, tt.dir)
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
			assert.False(t, errors.Is(err, domain.ErrInsufficientStock))
			assert.Equal(t, tt.current, newQty)
		})
	}

	_, newQty, err := inventory.ApplyAdjustment(entity.MaxQuantity-1, 1, entity.DirectionIn)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, newQty)
}

func TestApplySale_FueraDeRango(t *testing.T) {
	_, err := inventory.ApplySale(5, math.MaxInt)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
