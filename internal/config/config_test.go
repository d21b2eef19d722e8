package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, "treechat", cfg.SurrealDBNamespace)
	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
	assert.Equal(t, "8686", cfg.ServerPort)
	assert.Equal(t, 5, cfg.HistoryWindow)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SURREALDB_URL", "ws://db.example:9000/rpc")
	t.Setenv("TREECHAT_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TREECHAT_SERVER_PORT", "9999")
	t.Setenv("TREECHAT_HISTORY_WINDOW", "10")
	t.Setenv("TREECHAT_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "ws://db.example:9000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 10, cfg.HistoryWindow)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treechat.yaml")
	content := `
surrealdb:
  namespace: filetest
llm:
  provider: anthropic
  model: claude-sonnet
server:
  port: "7000"
chat:
  history_window: 8
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("TREECHAT_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "filetest", cfg.SurrealDBNamespace)
	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, "claude-sonnet", cfg.LLMModel)
	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, 8, cfg.HistoryWindow)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treechat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o600))
	t.Setenv("TREECHAT_CONFIG", path)
	t.Setenv("TREECHAT_SERVER_PORT", "8001")

	cfg := Load()
	assert.Equal(t, "8001", cfg.ServerPort)
}

func TestLoadBadConfigFileFallsBack(t *testing.T) {
	t.Setenv("TREECHAT_CONFIG", "/nonexistent/treechat.yaml")

	cfg := Load()
	assert.Equal(t, "8686", cfg.ServerPort)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
