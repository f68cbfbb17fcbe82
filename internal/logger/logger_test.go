package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amazonprice/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggerConfig{Level: "warn", Format: "console"}, Options{Console: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "WARN")
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"}, Options{Console: &buf})
	require.NoError(t, err)

	logger.Debug("debug line")
	logger.Info("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestNewLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(
		config.LoggerConfig{Level: "info", Format: "json"},
		Options{Console: &buf, Fields: []zap.Field{zap.String("app", "amazon-price")}},
	)
	require.NoError(t, err)

	logger.Info("price observed", zap.String("id", "B001"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "price observed", entry["msg"])
	assert.Equal(t, "amazon-price", entry["app"])
	assert.Equal(t, "B001", entry["id"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	var console bytes.Buffer

	logger, err := NewLogger(config.LoggerConfig{
		Level:      "info",
		Format:     "console",
		OutputPath: path,
		MaxSize:    1,
	}, Options{Console: &console})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, "written to file")
	assert.Contains(t, console.String(), "written to file")
}
