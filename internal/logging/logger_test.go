package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "debug", Format: "JSON"}, &buf)

	logger.With("component", "channels").Debug("relaxed source", "source", "CPX")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "relaxed source", entry["msg"])
	assert.Equal(t, "channels", entry["component"])
	assert.Equal(t, "CPX", entry["source"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "warn"}, &buf)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "INFO", parseLevel("").String())
	assert.Equal(t, "WARN", parseLevel(" Warning ").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
}
