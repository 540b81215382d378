package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

// NewPool abre el pool del ledger y verifica la conexión.
// Usa DATABASE_URL si está definido; si no, el DSN construido desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfigFor traduce DBConfig a la configuración de pgxpool.
// Cada ajuste o venta retiene una conexión mientras dura su SELECT FOR UPDATE,
// así que MaxConns acota cuántos productos distintos se escriben en paralelo.
func poolConfigFor(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(min(cfg.MinConns, cfg.MaxConns))
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Un lock_timeout evita que una fila bloqueada retenga la petición más allá del timeout
	// de almacenamiento; el error vuelve como StorageError y la tx se revierte.
	if cfg.Timeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["lock_timeout"] = fmt.Sprintf("%d", cfg.Timeout.Milliseconds())
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "stock-ledger"

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}
