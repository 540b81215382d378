package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ApplyAdjustment calcula el cambio firmado y la nueva cantidad de un ajuste (servicio de dominio).
// change = +amount (in) o -amount (out); falla si la nueva cantidad quedaría negativa.
// Una entrada que supere entity.MaxQuantity es ErrInvalidAmount.
func ApplyAdjustment(current, amount int, dir entity.Direction) (change, newQty int, err error) {
	if amount <= 0 || amount > entity.MaxQuantity {
		return 0, current, domain.ErrInvalidAmount
	}
	if !dir.Valid() {
		return 0, current, domain.ErrInvalidInput
	}
	change = amount
	if dir == entity.DirectionOut {
		change = -amount
	} else if amount > entity.MaxQuantity-current {
		return 0, current, domain.ErrInvalidAmount
	}
	newQty = current + change
	if newQty < 0 {
		return 0, current, &domain.InsufficientStockError{Available: current, Requested: amount}
	}
	return change, newQty, nil
}

// ApplySale calcula la nueva cantidad tras vender quantity unidades.
func ApplySale(current, quantity int) (newQty int, err error) {
	if quantity <= 0 || quantity > entity.MaxQuantity {
		return current, domain.ErrInvalidQuantity
	}
	if quantity > current {
		return current, &domain.InsufficientStockError{Available: current, Requested: quantity}
	}
	return current - quantity, nil
}
