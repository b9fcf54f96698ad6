package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "DATABASE_DSN", "NEWS_WEBHOOK_URL",
		"NEWS_TIMEOUT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"GEMINI_TIMEOUT", "MAX_ACTIONS", "BREAKER_FAILURES", "BREAKER_DELAY",
		"RADAR_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, InMemoryDSN, cfg.DatabaseDSN)
	assert.Equal(t, DefaultNewsWebhookURL, cfg.News.WebhookURL)
	assert.Equal(t, DefaultMaxActions, cfg.Priorities.MaxActions)
	assert.False(t, cfg.GeminiEnabled())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "radar.yaml")
	body := `
port: "9000"
news:
  webhook_url: http://news.local/hook
  timeout: 5s
gemini:
  api_key: from-file
  model: gemini-2.0-flash
priorities:
  max_actions: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("MAX_ACTIONS", "-1")

	cfg, err := Load(path, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://news.local/hook", cfg.News.WebhookURL)
	assert.Equal(t, 5*time.Second, cfg.News.Timeout)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, DefaultMaxActions, cfg.Priorities.MaxActions, "non-positive max falls back to default")
	assert.True(t, cfg.GeminiEnabled())
}

func TestLoadBreakerFailures(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, uint(3), cfg.Priorities.BreakerFailures)

	t.Setenv("BREAKER_FAILURES", "-4")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, uint(0), cfg.Priorities.BreakerFailures, "negative disables the breaker")

	t.Setenv("BREAKER_FAILURES", "5")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, uint(5), cfg.Priorities.BreakerFailures)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FOO", "")
	assert.Equal(t, "bar", GetEnv("FOO", "bar"))
	t.Setenv("FOO", "baz")
	assert.Equal(t, "baz", GetEnv("FOO", "bar"))

	t.Setenv("NUM", "notint")
	assert.Equal(t, 7, GetEnvInt("NUM", 7))

	t.Setenv("DUR", "2m")
	assert.Equal(t, 2*time.Minute, GetEnvDuration("DUR", time.Second))
	t.Setenv("DUR", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("DUR", time.Second))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("WARN"))
	assert.Equal(t, logrus.ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
}
