package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
)

// InvoiceHandler factura de una venta en JSON, PDF o XML.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Get godoc
// @Summary      Factura de una venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice.pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// DownloadXML godoc
// @Summary      Descargar factura en XML
// @Description  El header X-Invoice-Digest lleva el SHA-256 del XML canónico.
// @Tags         sales
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice.xml [get]
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	xmlBytes, filename, digest, err := h.uc.DownloadInvoiceXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set("X-Invoice-Digest", digest)
	return c.Send(xmlBytes)
}
