package entity

import "time"

// SaleMovementReason es el motivo fijo de los movimientos generados por una venta.
const SaleMovementReason = "Sale"

// MovementReasonMaxLen límite del motivo (reason varchar(100)).
const MovementReasonMaxLen = 100

// Direction sentido de un ajuste de stock.
type Direction string

const (
	DirectionIn  Direction = "in"  // entrada
	DirectionOut Direction = "out" // salida
)

// Valid indica si el sentido es uno de los conocidos.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovement es una entrada inmutable del ledger: un cambio de cantidad de un producto.
type StockMovement struct {
	ID             string
	ProductID      string
	Change         int // positivo = entrada, negativo = salida; nunca 0
	Reason         string
	SaleID         *string // presente si el movimiento lo originó una venta
	IdempotencyKey *string
	CreatedAt      time.Time
}
