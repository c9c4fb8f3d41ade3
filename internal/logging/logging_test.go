package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	logger.Debug().Str("learner", "anna").Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "anna", line["learner"])
	assert.Equal(t, "hello", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "WARN"}, &buf)

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriterUnknownLevelDefaultsToInfo(t *testing.T) {
	for _, lvl := range []string{"", "loud"} {
		logger := NewWithWriter(config.LogConfig{Level: lvl}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel(), "level %q", lvl)
	}
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Str("level_name", "b1").Msg("catalog warmed")

	out := buf.String()
	assert.Contains(t, out, "catalog warmed")
	assert.Contains(t, out, "level_name=b1")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
