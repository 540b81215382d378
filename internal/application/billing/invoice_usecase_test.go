package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

type stubPDF struct{ err error }

func (s stubPDF) GenerateInvoicePDF(_ context.Context, inv *billing.SaleInvoice) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF " + inv.Sale.ID), nil
}

type stubXML struct{}

func (stubXML) BuildInvoiceXML(inv *billing.SaleInvoice) ([]byte, string, error) {
	return []byte("<Invoice/>"), "digest-" + inv.Total.StringFixed(2), nil
}

func setup(t *testing.T, pdfErr error) (*billing.InvoiceUseCase, *memory.Store, *entity.Sale) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Widget", SKU: "W-1", Price: decimal.RequireFromString("9.99"),
		Quantity: 15, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.ProductRepository().Create(ctx, p))
	ledger := inventory.NewLedgerUseCase(store, store.ProductRepository(), store.StockMovementRepository(), nil, nil)
	sale, err := ledger.RecordSale(ctx, inventory.RecordSaleInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	uc := billing.NewInvoiceUseCase(store.SaleRepository(), store.ProductRepository(), stubPDF{err: pdfErr}, stubXML{})
	return uc, store, sale
}

func TestInvoiceUseCase_GetInvoice(t *testing.T) {
	uc, _, sale := setup(t, nil)

	out, err := uc.GetInvoice(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, out.Sale.ID)
	assert.Equal(t, "Widget", out.ProductName)
	assert.Equal(t, "W-1", out.ProductSKU)
	assert.Equal(t, "29.97", out.Total.StringFixed(2))
	assert.Equal(t, "digest-29.97", out.Digest)
}

func TestInvoiceUseCase_ProductoDadoDeBaja(t *testing.T) {
	uc, store, sale := setup(t, nil)
	require.NoError(t, store.ProductRepository().SoftDelete(context.Background(), sale.ProductID))

	out, err := uc.GetInvoice(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", out.ProductName)
	assert.Equal(t, "29.97", out.Total.StringFixed(2))
}

func TestInvoiceUseCase_VentaInexistente(t *testing.T) {
	uc, _, _ := setup(t, nil)

	_, err := uc.GetInvoice(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.DownloadInvoicePDF(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_Descargas(t *testing.T) {
	uc, _, sale := setup(t, nil)
	ctx := context.Background()

	pdfBytes, filename, err := uc.DownloadInvoicePDF(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+sale.ID+".pdf", filename)
	assert.NotEmpty(t, pdfBytes)

	xmlBytes, filename, digest, err := uc.DownloadInvoiceXML(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+sale.ID+".xml", filename)
	assert.Equal(t, "<Invoice/>", string(xmlBytes))
	assert.Equal(t, "digest-29.97", digest)
}

func TestInvoiceUseCase_FalloPDF(t *testing.T) {
	uc, _, sale := setup(t, errors.New("sin fuentes"))

	_, _, err := uc.DownloadInvoicePDF(context.Background(), sale.ID)
	assert.ErrorContains(t, err, "sin fuentes")
}
