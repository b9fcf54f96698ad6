package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNewsWebhookURL = "https://cloud.activepieces.com/api/v1/webhooks/oL42YfxWidIQ8tzHyh7nP/sync"
	DefaultGeminiModel    = "gemini-1.5-flash"
	DefaultMaxActions     = 8

	// InMemoryDSN keeps tickets for the lifetime of the process only.
	InMemoryDSN = "file:radar?mode=memory&cache=shared"
)

type Config struct {
	Port        string         `yaml:"port"`
	GinMode     string         `yaml:"gin_mode"`
	LogLevel    string         `yaml:"log_level"`
	DatabaseDSN string         `yaml:"database_dsn"`
	News        NewsConfig     `yaml:"news"`
	Gemini      GeminiConfig   `yaml:"gemini"`
	Priorities  PriorityConfig `yaml:"priorities"`
}

type NewsConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// GeminiConfig configures the remote prioritization strategy. An empty
// APIKey disables it.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type PriorityConfig struct {
	MaxActions int `yaml:"max_actions"`
	// Consecutive remote failures before the engine stops calling Gemini
	// for BreakerDelay.
	BreakerFailures uint          `yaml:"breaker_failures"`
	BreakerDelay    time.Duration `yaml:"breaker_delay"`
}

func Default() Config {
	return Config{
		Port:        "8090",
		GinMode:     "release",
		LogLevel:    "info",
		DatabaseDSN: InMemoryDSN,
		News: NewsConfig{
			WebhookURL: DefaultNewsWebhookURL,
			Timeout:    30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:   DefaultGeminiModel,
			Timeout: 60 * time.Second,
		},
		Priorities: PriorityConfig{
			MaxActions:      DefaultMaxActions,
			BreakerFailures: 3,
			BreakerDelay:    time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence.
func Load(path string, logger *logrus.Logger) (Config, error) {
	cfg := Default()
	LoadEnv(logger)

	if path == "" {
		path = os.Getenv("RADAR_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.GinMode = GetEnv("GIN_MODE", cfg.GinMode)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseDSN = GetEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.News.WebhookURL = GetEnv("NEWS_WEBHOOK_URL", cfg.News.WebhookURL)
	cfg.News.Timeout = GetEnvDuration("NEWS_TIMEOUT", cfg.News.Timeout)
	cfg.Gemini.APIKey = GetEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = GetEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.BaseURL = GetEnv("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
	cfg.Gemini.Timeout = GetEnvDuration("GEMINI_TIMEOUT", cfg.Gemini.Timeout)
	cfg.Priorities.MaxActions = GetEnvInt("MAX_ACTIONS", cfg.Priorities.MaxActions)
	// a negative threshold disables the breaker
	cfg.Priorities.BreakerFailures = uint(max(GetEnvInt("BREAKER_FAILURES", int(cfg.Priorities.BreakerFailures)), 0))
	cfg.Priorities.BreakerDelay = GetEnvDuration("BREAKER_DELAY", cfg.Priorities.BreakerDelay)

	if cfg.Priorities.MaxActions <= 0 {
		cfg.Priorities.MaxActions = DefaultMaxActions
	}
	if cfg.News.WebhookURL == "" {
		return cfg, fmt.Errorf("news webhook url is empty")
	}
	return cfg, nil
}

// GeminiEnabled reports whether the remote strategy can be attempted.
func (c Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}
