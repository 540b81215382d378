package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestLogger_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.Named("inventory").Ctx(ctx).Info().Str("sku", "A-1").Msg("ajuste")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventory", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "A-1", entry["sku"])
	assert.Equal(t, "ajuste", entry["message"])
}

func TestLogger_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})
	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestCtx_SinRequestID(t *testing.T) {
	l := Nop()
	assert.Same(t, l, l.Ctx(context.Background()))
	assert.Equal(t, "", RequestID(ContextWithRequestID(context.Background(), "")))
}
