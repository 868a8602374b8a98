package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", false)

	log.Info().Msg("oculto")
	log.Warn().Msg("visible")

	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), `"message":"visible"`)
	assert.Contains(t, buf.String(), `"service":"ligue-crm"`)
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "ruidoso", false)

	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "info", true)

	log.Info().Msg("hola")

	assert.Contains(t, buf.String(), "hola")
	assert.NotContains(t, buf.String(), `"message"`)
}
