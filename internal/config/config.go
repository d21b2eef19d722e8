// Package config loads treechat configuration from an optional YAML file
// and environment variables. Environment variables win over file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies the text-generation backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM generation
	LLMProvider     Provider
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// HTTP server
	ServerPort string
	APIKey     string

	// Chat behaviour
	HistoryWindow int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the YAML layout of the optional config file.
type fileConfig struct {
	SurrealDB struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		AuthLevel string `yaml:"auth_level"`
	} `yaml:"surrealdb"`
	LLM struct {
		Provider        string `yaml:"provider"`
		Model           string `yaml:"model"`
		OllamaHost      string `yaml:"ollama_host"`
		OpenAIAPIKey    string `yaml:"openai_api_key"`
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
	} `yaml:"llm"`
	Server struct {
		Port   string `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`
	Chat struct {
		HistoryWindow int `yaml:"history_window"`
	} `yaml:"chat"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads configuration, starting from defaults, applying the YAML file
// named by TREECHAT_CONFIG (if set and readable), then environment variables.
func Load() Config {
	cfg := Config{
		SurrealDBURL:       "ws://localhost:8000/rpc",
		SurrealDBNamespace: "treechat",
		SurrealDBDatabase:  "chat",
		SurrealDBUser:      "root",
		SurrealDBPass:      "root",
		SurrealDBAuthLevel: "root",

		LLMProvider: ProviderOllama,
		LLMModel:    "llama3",
		OllamaHost:  "http://localhost:11434",

		ServerPort: "8686",
		APIKey:     "",

		HistoryWindow: 5,

		LogFile:  "/tmp/treechat.log",
		LogLevel: slog.LevelInfo,
	}

	if path := os.Getenv("TREECHAT_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			slog.Warn("failed to load config file, continuing with defaults", "path", path, "error", err)
		}
	}

	applyEnv(&cfg)
	return cfg
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIf(&cfg.SurrealDBURL, fc.SurrealDB.URL)
	setIf(&cfg.SurrealDBNamespace, fc.SurrealDB.Namespace)
	setIf(&cfg.SurrealDBDatabase, fc.SurrealDB.Database)
	setIf(&cfg.SurrealDBUser, fc.SurrealDB.User)
	setIf(&cfg.SurrealDBPass, fc.SurrealDB.Pass)
	setIf(&cfg.SurrealDBAuthLevel, fc.SurrealDB.AuthLevel)

	if fc.LLM.Provider != "" {
		cfg.LLMProvider = Provider(fc.LLM.Provider)
	}
	setIf(&cfg.LLMModel, fc.LLM.Model)
	setIf(&cfg.OllamaHost, fc.LLM.OllamaHost)
	setIf(&cfg.OpenAIAPIKey, fc.LLM.OpenAIAPIKey)
	setIf(&cfg.AnthropicAPIKey, fc.LLM.AnthropicAPIKey)

	setIf(&cfg.ServerPort, fc.Server.Port)
	setIf(&cfg.APIKey, fc.Server.APIKey)

	if fc.Chat.HistoryWindow > 0 {
		cfg.HistoryWindow = fc.Chat.HistoryWindow
	}

	setIf(&cfg.LogFile, fc.Log.File)
	if fc.Log.Level != "" {
		cfg.LogLevel = parseLogLevel(fc.Log.Level)
	}

	return nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.SurrealDBURL, "SURREALDB_URL")
	setEnv(&cfg.SurrealDBNamespace, "SURREALDB_NAMESPACE")
	setEnv(&cfg.SurrealDBDatabase, "SURREALDB_DATABASE")
	setEnv(&cfg.SurrealDBUser, "SURREALDB_USER")
	setEnv(&cfg.SurrealDBPass, "SURREALDB_PASS")
	setEnv(&cfg.SurrealDBAuthLevel, "SURREALDB_AUTH_LEVEL")

	if v := os.Getenv("TREECHAT_LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = Provider(v)
	}
	setEnv(&cfg.LLMModel, "TREECHAT_LLM_MODEL")
	setEnv(&cfg.OllamaHost, "OLLAMA_HOST")
	setEnv(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setEnv(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	setEnv(&cfg.ServerPort, "TREECHAT_SERVER_PORT")
	setEnv(&cfg.APIKey, "TREECHAT_API_KEY")

	if v := os.Getenv("TREECHAT_HISTORY_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryWindow = n
		}
	}

	setEnv(&cfg.LogFile, "TREECHAT_LOG_FILE")
	if v := os.Getenv("TREECHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
}

func setIf(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func setEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
