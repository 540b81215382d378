package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestPoolConfigFor(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@localhost:5432/ledger?sslmode=disable",
		MaxConns:    8,
		MinConns:    3,
		Timeout:     2 * time.Second,
	}
	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 3, pc.MinConns)
	assert.Equal(t, "2000", pc.ConnConfig.RuntimeParams["lock_timeout"])
	assert.Equal(t, "stock-ledger", pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFor_MinConnsNoSuperaMax(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://u@localhost/ledger", MaxConns: 2, MinConns: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pc.MinConns)
	_, ok := pc.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, ok)
}

func TestPoolConfigFor_DSNInvalido(t *testing.T) {
	_, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://%zz", MaxConns: 1})
	assert.Error(t, err)
}
