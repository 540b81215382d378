package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// ReportHandler reportes del inventario.
type ReportHandler struct {
	summary  *report.SummaryUseCase
	lowStock *report.LowStockUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(summary *report.SummaryUseCase, lowStock *report.LowStockUseCase) *ReportHandler {
	return &ReportHandler{summary: summary, lowStock: lowStock}
}

// Summary godoc
// @Summary      Resumen del inventario
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.summary.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Lista de reposición
// @Description  Productos con quantity menor al umbral, con la cantidad sugerida de pedido.
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.lowStock.GenerateLowStockList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
