package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SaleInvoice datos de la factura de una venta. El producto puede estar dado de baja.
type SaleInvoice struct {
	Sale    *entity.Sale
	Product *entity.Product
	Total   decimal.Decimal
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de la factura (infraestructura).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *SaleInvoice) ([]byte, error)
}

// InvoiceXMLBuilder construye el XML de la factura y su digest SHA-256 (hex) sobre la forma canónica.
type InvoiceXMLBuilder interface {
	BuildInvoiceXML(invoice *SaleInvoice) (xml []byte, digest string, err error)
}
