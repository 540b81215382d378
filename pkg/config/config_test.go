package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, 5*time.Second, cfg.DB.Timeout)
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/stock_ledger?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Memory")
	v.Set("DB_TIMEOUT_SECONDS", "2")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("DATABASE_URL", "postgres://u:p@db/x")
	v.Set("HTTP_PORT", 9000)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.DB.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "postgres://u:p@db/x", cfg.DB.ConnectionString())
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestFromViper_Invalida(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":       "sqlite",
		"DB_MAX_CONNS":       "0",
		"DB_TIMEOUT_SECONDS": "-1",
		"DB_MIN_CONNS":       "30",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			v.Set(key, val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}
