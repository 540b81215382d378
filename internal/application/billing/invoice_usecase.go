package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// InvoiceUseCase arma la factura de una venta en JSON, PDF o XML.
// Solo lee: la venta y su precio quedaron fijados al registrarla.
type InvoiceUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	pdf         InvoicePDFGenerator
	xml         InvoiceXMLBuilder
}

// NewInvoiceUseCase construye el caso de uso inyectando todas sus dependencias.
func NewInvoiceUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLBuilder,
) *InvoiceUseCase {
	return &InvoiceUseCase{saleRepo: saleRepo, productRepo: productRepo, pdf: pdf, xml: xml}
}

// Load recupera la venta y su producto. domain.ErrNotFound si la venta no existe.
func (uc *InvoiceUseCase) Load(ctx context.Context, saleID string) (*SaleInvoice, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetIncludingDeleted(ctx, sale.ProductID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener producto: %w", err)
	}
	return &SaleInvoice{Sale: sale, Product: product, Total: sale.Total()}, nil
}

// GetInvoice devuelve la factura con el total exacto (quantity * price_at_sale) y el digest del XML.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, saleID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.Load(ctx, saleID)
	if err != nil {
		return nil, err
	}
	var digest string
	if uc.xml != nil {
		if _, digest, err = uc.xml.BuildInvoiceXML(inv); err != nil {
			return nil, fmt.Errorf("factura: xml: %w", err)
		}
	}
	return &dto.InvoiceResponse{
		Sale: dto.SaleResponse{
			ID:          inv.Sale.ID,
			ProductID:   inv.Sale.ProductID,
			Quantity:    inv.Sale.Quantity,
			PriceAtSale: inv.Sale.PriceAtSale,
			CreatedAt:   inv.Sale.CreatedAt,
		},
		ProductName: inv.Product.Name,
		ProductSKU:  inv.Product.SKU,
		Total:       inv.Total,
		Digest:      digest,
	}, nil
}

// DownloadInvoicePDF genera el PDF de la factura. Retorna (pdfBytes, filename, err).
func (uc *InvoiceUseCase) DownloadInvoicePDF(ctx context.Context, saleID string) ([]byte, string, error) {
	inv, err := uc.Load(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("factura: generación PDF fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", saleID), nil
}

// DownloadInvoiceXML genera el XML de la factura. Retorna (xmlBytes, filename, digest, err).
func (uc *InvoiceUseCase) DownloadInvoiceXML(ctx context.Context, saleID string) ([]byte, string, string, error) {
	inv, err := uc.Load(ctx, saleID)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err := uc.xml.BuildInvoiceXML(inv)
	if err != nil {
		return nil, "", "", fmt.Errorf("factura: xml: %w", err)
	}
	return xmlBytes, fmt.Sprintf("factura_%s.xml", saleID), digest, nil
}
