package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}).Component("matching")

	l.Info().Str("invoice_id", "inv-1").Msg("cruce ejecutado")
	l.Debug().Msg("no debe aparecer")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "matching", line["component"])
	assert.Equal(t, "inv-1", line["invoice_id"])
	assert.Equal(t, "info", line["level"])
}

func TestLogger_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "verbose", Output: &buf})
	l.Debug().Msg("x")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("y")
	assert.NotZero(t, buf.Len())
}

func TestLogger_Nop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("descartado") })
}
