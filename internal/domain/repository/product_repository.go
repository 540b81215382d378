package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductSort criterio de ordenamiento cerrado para listados de productos.
type ProductSort string

const (
	SortNone      ProductSort = ""
	SortNameAsc   ProductSort = "name_asc"
	SortNameDesc  ProductSort = "name_desc"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortQtyAsc    ProductSort = "qty_asc"
	SortQtyDesc   ProductSort = "qty_desc"
)

// ParseProductSort convierte el parámetro de consulta; valores desconocidos equivalen a SortNone.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortQtyAsc, SortQtyDesc:
		return ProductSort(s)
	}
	return SortNone
}

// ProductFilter filtro de listado. Query busca en name o sku (sin distinguir mayúsculas).
// Sin Query ni Sort se devuelve el orden de almacenamiento (orden de creación).
type ProductFilter struct {
	Query string
	Sort  ProductSort
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los productos dados de baja (DeletedAt != nil) son invisibles para todas las lecturas.
type ProductRepository interface {
	// Create falla con domain.ErrDuplicateSKU si el SKU ya existe entre productos activos.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetIncludingDeleted también devuelve productos dados de baja (facturas de ventas históricas).
	GetIncludingDeleted(ctx context.Context, id string) (*entity.Product, error)
	// Update sobrescribe name, sku, price y quantity.
	Update(ctx context.Context, product *entity.Product) error
	// SetQuantity solo debe usarse dentro de una transacción junto con su movimiento.
	SetQuantity(ctx context.Context, id string, quantity int) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
