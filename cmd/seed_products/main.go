// seed_products carga un catálogo de productos desde CSV (name,sku,price,quantity)
// usando la misma configuración y validaciones que la API.
//
// Uso: go run ./cmd/seed_products [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual. Los SKU repetidos se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/csvimport"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	defer f.Close()
	rows, err := csvimport.ReadProducts(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.MigrateOnStart {
		if _, err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	uc := usecase.NewProductUseCase(productRepo, postgres.NewTxRunner(pool), report.NewSummaryUseCase(productRepo))

	var created, skipped int
	for i, in := range rows {
		_, err := uc.Create(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicateSKU):
			skipped++
			log.Warn().Str("sku", in.SKU).Msg("SKU ya existe, se omite")
		default:
			log.Error().Err(err).Int("row", i+1).Str("sku", in.SKU).Msg("no se pudo crear el producto")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Int("total", len(rows)).Msg("carga terminada")
}
