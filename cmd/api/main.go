// @title        Stock Ledger API
// @version      1.0
// @description  Ledger de inventario: productos, ajustes de stock, ventas y facturas.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/invoicexml"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// storage repositorios y TxRunner del driver elegido.
type storage struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	saleRepo    repository.SaleRepository
	txRunner    inventory.TxRunner
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	var publisher inventory.EventPublisher
	if cfg.Kafka.Enabled() {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar publisher Kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos habilitada")
	}

	summaryUC := report.NewSummaryUseCase(st.productRepo)
	lowStockUC := report.NewLowStockUseCase(st.productRepo)
	productUC := usecase.NewProductUseCase(st.productRepo, st.txRunner, summaryUC)
	ledgerUC := inventory.NewLedgerUseCase(st.txRunner, st.productRepo, st.movRepo, publisher, log)

	// Factura: PDF con Maroto, XML con digest C14N
	invoiceUC := billing.NewInvoiceUseCase(
		st.saleRepo, st.productRepo,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		invoicexml.NewBuilder(),
	)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		ProductUC:      productUC,
		LedgerUC:       ledgerUC,
		InvoiceUC:      invoiceUC,
		SummaryUC:      summaryUC,
		LowStockUC:     lowStockUC,
		Log:            log,
		RequestTimeout: cfg.DB.Timeout,
		AppName:        cfg.App.Name,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		log.Warn().Msg("usando store en memoria: los datos se pierden al reiniciar")
		return &storage{
			productRepo: store.ProductRepository(),
			movRepo:     store.StockMovementRepository(),
			saleRepo:    store.SaleRepository(),
			txRunner:    store,
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.MigrateOnStart {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}
	return &storage{
		productRepo: postgres.NewProductRepository(pool),
		movRepo:     postgres.NewStockMovementRepository(pool),
		saleRepo:    postgres.NewSaleRepository(pool),
		txRunner:    postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}
