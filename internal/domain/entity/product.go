package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Límites heredados del esquema original (name varchar(100), sku varchar(20)).
const (
	ProductNameMaxLen = 100
	ProductSKUMaxLen  = 20
	PriceScale        = 2
)

// MaxQuantity tope de cualquier cantidad de stock (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// Product representa un producto del catálogo con su stock actual.
// Quantity solo cambia vía el motor de inventario (con su movimiento) o por edición explícita.
type Product struct {
	ID        string
	Name      string
	SKU       string          // único entre productos activos, sensible a mayúsculas
	Price     decimal.Decimal // precio de venta, 2 decimales
	Quantity  int             // siempre >= 0
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // borrado lógico: el historial del ledger se conserva
}

// IsDeleted indica si el producto fue dado de baja.
func (p *Product) IsDeleted() bool { return p.DeletedAt != nil }

// StockValue devuelve quantity * price sin pérdida de precisión.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
