// Package pdf implementa la representación gráfica (PDF) de la factura de una venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  N° Venta + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | SKU | P.Unit | Total               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL A PAGAR                                               │
//	│  FOOTER: QR con id de venta y total                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/stock-ledger/internal/application/billing"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string
}

// NewMarotoPDFGenerator construye el generador. issuer aparece en el encabezado (APP_NAME).
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, inv *appbilling.SaleInvoice) ([]byte, error) {
	if inv == nil || inv.Sale == nil || inv.Product == nil {
		return nil, fmt.Errorf("pdf: faltan sale o product")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura de venta", true).
		WithAuthor(nonEmpty(g.issuer, "stock-ledger"), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(inv))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) headerRow(inv *appbilling.SaleInvoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.issuer, "stock-ledger"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("FACTURA DE VENTA", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Venta N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Sale.ID, props.Text{Size: 7, Align: align.Right, Top: 7}),
			text.New("Fecha: "+inv.Sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("SKU", 2, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func detailRow(inv *appbilling.SaleInvoice) core.Row {
	name := inv.Product.Name
	if inv.Product.IsDeleted() {
		name += " (descontinuado)"
	}
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", inv.Sale.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(inv.Product.SKU, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(formatMoney(inv.Sale.PriceAtSale), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(formatMoney(inv.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func totalRow(inv *appbilling.SaleInvoice) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(inv.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRow: QR con id de venta y total para conciliación.
func footerRow(inv *appbilling.SaleInvoice) core.Row {
	qr := fmt.Sprintf("sale=%s;total=%s", inv.Sale.ID, inv.Total.StringFixed(2))
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Precio fijado al momento de la venta.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
