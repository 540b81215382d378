// Package invoicexml construye el XML de la factura de una venta (estructura UBL reducida)
// y su digest SHA-256 sobre la forma canónica C14N.
package invoicexml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/stock-ledger/internal/application/billing"
)

const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	// InvoiceElementID atributo Id del nodo raíz.
	InvoiceElementID = "invoice-id"
	currencyCode     = "USD"
)

var _ appbilling.InvoiceXMLBuilder = (*Builder)(nil)

// Builder implementa billing.InvoiceXMLBuilder con etree.
type Builder struct{}

// NewBuilder crea el servicio.
func NewBuilder() *Builder { return &Builder{} }

// BuildInvoiceXML genera el documento y el digest hex del root canonicalizado.
// Misma venta => mismo digest.
func (b *Builder) BuildInvoiceXML(inv *appbilling.SaleInvoice) ([]byte, string, error) {
	if inv == nil || inv.Sale == nil || inv.Product == nil {
		return nil, "", fmt.Errorf("invoicexml: faltan sale o product")
	}

	root := buildRoot(inv)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("invoicexml: serializar: %w", err)
	}

	// El digest se calcula sin declaración XML ni indentación.
	bare := etree.NewDocument()
	bare.SetRoot(root.Copy())
	bareBytes, err := bare.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("invoicexml: serializar: %w", err)
	}
	canonical, err := canonicalizeXML(bareBytes)
	if err != nil {
		return nil, "", fmt.Errorf("invoicexml: c14n: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return out, hex.EncodeToString(sum[:]), nil
}

func buildRoot(inv *appbilling.SaleInvoice) *etree.Element {
	sale, product := inv.Sale, inv.Product

	root := etree.NewElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("Id", InvoiceElementID)

	root.CreateElement("cbc:ID").SetText(sale.ID)
	root.CreateElement("cbc:IssueDate").SetText(sale.CreatedAt.UTC().Format("2006-01-02"))
	root.CreateElement("cbc:IssueTime").SetText(sale.CreatedAt.UTC().Format("15:04:05Z"))
	root.CreateElement("cbc:DocumentCurrencyCode").SetText(currencyCode)

	line := root.CreateElement("cac:InvoiceLine")
	line.CreateElement("cbc:ID").SetText("1")
	qty := line.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", "EA")
	qty.SetText(strconv.Itoa(sale.Quantity))
	amount(line, "cbc:LineExtensionAmount", inv.Total.StringFixed(2))

	item := line.CreateElement("cac:Item")
	item.CreateElement("cbc:Description").SetText(product.Name)
	sellers := item.CreateElement("cac:SellersItemIdentification")
	sellers.CreateElement("cbc:ID").SetText(product.SKU)
	std := item.CreateElement("cac:StandardItemIdentification")
	std.CreateElement("cbc:ID").SetText(product.ID)

	price := line.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", sale.PriceAtSale.StringFixed(2))

	totals := root.CreateElement("cac:LegalMonetaryTotal")
	amount(totals, "cbc:LineExtensionAmount", inv.Total.StringFixed(2))
	amount(totals, "cbc:PayableAmount", inv.Total.StringFixed(2))
	return root
}

func amount(parent *etree.Element, tag, value string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currencyCode)
	el.SetText(value)
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
