package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	SKU      string          `json:"sku" validate:"required,min=1,max=20"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

// UpdateProductRequest entrada para editar un producto: sobrescribe todos los campos.
type UpdateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	SKU      string          `json:"sku" validate:"required,min=1,max=20"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LowStock  bool            `json:"low_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse listado de productos más el resumen del inventario completo.
type ProductListResponse struct {
	Items   []ProductResponse `json:"items"`
	Query   string            `json:"query,omitempty"`
	Sort    string            `json:"sort,omitempty"`
	Summary SummaryResponse   `json:"summary"`
}
