package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("hello", "key", "value")

	assert.Contains(t, stderr.String(), "hello")
	assert.Contains(t, stderr.String(), "key=value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry), "file output is JSON")
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestSetupLoggerWithWritersLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Info("filtered out")
	assert.Empty(t, stderr.String())
	assert.Empty(t, file.String())
}

func TestSetupLoggerFallsBackWithoutFile(t *testing.T) {
	logger, cleanup := SetupLogger(filepath.Join(t.TempDir(), "missing", "treechat.log"), slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treechat.log")

	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("to file")
	require.NoError(t, cleanup())
}
