package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// EditMovementReason motivo del movimiento que registra el cambio de cantidad de una edición.
const EditMovementReason = "Manual edit"

// SummaryProvider calcula el resumen del inventario (report.SummaryUseCase).
type SummaryProvider interface {
	GetSummary(ctx context.Context) (*dto.SummaryResponse, error)
}

// ProductUseCase casos de uso CRUD para productos.
// Una edición que cambia la cantidad deja su movimiento en el ledger, en la misma transacción.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	summary  SummaryProvider
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, summary SummaryProvider) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, summary: summary}
}

// Create crea un nuevo producto. Falla con ErrDuplicateSKU si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, sku, err := validateProduct(in.Name, in.SKU, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSKU
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		SKU:       sku,
		Price:     in.Price,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// El índice único resuelve la carrera entre dos altas simultáneas con el mismo SKU.
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update sobrescribe name, sku, price y quantity. Si la cantidad cambia se registra
// un movimiento con la diferencia para que el ledger siga explicando el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	name, sku, err := validateProduct(in.Name, in.SKU, in.Price, in.Quantity)
	if err != nil {
		return nil, err
	}

	var updated *entity.Product
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sku != product.SKU {
			other, err := productRepo.GetBySKU(ctx, sku)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if other != nil && other.ID != product.ID {
				return domain.ErrDuplicateSKU
			}
		}

		now := time.Now()
		delta := in.Quantity - product.Quantity
		product.Name = name
		product.SKU = sku
		product.Price = in.Price
		product.Quantity = in.Quantity
		product.UpdatedAt = now
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if delta != 0 {
			if err := movRepo.Create(ctx, &entity.StockMovement{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Change:    delta,
				Reason:    EditMovementReason,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// List lista productos filtrando por texto (name o sku) y ordenando por un criterio cerrado.
// El resumen siempre se calcula sobre el inventario completo, no sobre el filtro.
func (uc *ProductUseCase) List(ctx context.Context, query, sort string) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		Query: strings.TrimSpace(query),
		Sort:  repository.ParseProductSort(sort),
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	out := &dto.ProductListResponse{Items: items, Query: filter.Query, Sort: string(filter.Sort)}
	if uc.summary != nil {
		summary, err := uc.summary.GetSummary(ctx)
		if err != nil {
			return nil, err
		}
		out.Summary = *summary
	}
	return out, nil
}

// Delete da de baja un producto. Su historial (movimientos y ventas) se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.SoftDelete(ctx, id)
}

// validateProduct normaliza y valida los campos editables de un producto.
func validateProduct(name, sku string, price decimal.Decimal, quantity int) (string, string, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)
	switch {
	case name == "" || utf8.RuneCountInString(name) > entity.ProductNameMaxLen:
		return "", "", domain.ErrInvalidInput
	case sku == "" || utf8.RuneCountInString(sku) > entity.ProductSKUMaxLen:
		return "", "", domain.ErrInvalidInput
	case price.IsNegative():
		return "", "", domain.ErrInvalidInput
	case !price.Equal(price.Round(entity.PriceScale)):
		return "", "", domain.ErrInvalidInput
	case quantity < 0 || quantity > entity.MaxQuantity:
		return "", "", domain.ErrInvalidInput
	}
	return name, sku, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Quantity:  p.Quantity,
		LowStock:  p.Quantity < domaininv.LowStockThreshold,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
