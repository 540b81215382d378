package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *inventory.LedgerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	SummaryUC  *report.SummaryUseCase
	LowStockUC *report.LowStockUseCase
	Log        *logger.Logger
	// RequestTimeout límite por petición (DB_TIMEOUT_SECONDS); 0 = sin límite.
	RequestTimeout time.Duration
	AppName        string
}

// NewApp crea la app Fiber con middlewares, /health y las rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log.Named("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestTimeout(deps.RequestTimeout))

	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/adjustments", inventoryHandler.AdjustStock)
	products.Get("/:id/movements", inventoryHandler.ListMovements)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	sales := api.Group("/sales")
	sales.Post("/", inventoryHandler.RecordSale)
	sales.Get("/:id/invoice", invoiceHandler.Get)
	sales.Get("/:id/invoice.pdf", invoiceHandler.DownloadPDF)
	sales.Get("/:id/invoice.xml", invoiceHandler.DownloadXML)

	reportHandler := NewReportHandler(deps.SummaryUC, deps.LowStockUC)
	reports := api.Group("/reports")
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/low-stock", reportHandler.LowStock)
}
