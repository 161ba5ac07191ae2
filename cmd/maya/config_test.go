package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("GROK_API_KEY", "test-key")
}

func TestLoadConfig_MissingTelegramToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GROK_API_KEY", "test-key")

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoadConfig_MissingGrokAPIKey(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("GROK_API_KEY", "")

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROK_API_KEY")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.TelegramToken)
	assert.Equal(t, "test-key", cfg.GrokAPIKey)
	assert.Equal(t, "https://api.x.ai/v1", cfg.GrokBaseURL)
	assert.Equal(t, "grok-beta", cfg.Model)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "redis", cfg.MemoryBackend)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 10, cfg.MaxHistory)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.TracingEnabled)
	assert.Empty(t, cfg.AdminIDs)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GROK_API_BASE_URL", "https://llm.internal/v1")
	t.Setenv("GROK_MODEL", "grok-2")
	t.Setenv("PORT", "9090")
	t.Setenv("MEMORY_BACKEND", "sqlite")
	t.Setenv("MAX_HISTORY", "4")
	t.Setenv("MEMORY_RETENTION_DAYS", "1")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("MAYA_TRACING", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://llm.internal/v1", cfg.GrokBaseURL)
	assert.Equal(t, "grok-2", cfg.Model)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.MemoryBackend)
	assert.Equal(t, 4, cfg.MaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.Retention)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadConfig_WebhookBaseURLPrefixed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_BASE_URL", "maya.example.com")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://maya.example.com", cfg.WebhookBaseURL)
}

func TestLoadConfig_WebhookBaseURLKeptWhenAlreadyHTTP(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_BASE_URL", "https://maya.example.com")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://maya.example.com", cfg.WebhookBaseURL)
}

func TestParseAdminIDs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ids, err := parseAdminIDs("")
		require.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("list with spaces", func(t *testing.T) {
		ids, err := parseAdminIDs("12345, 67890 ,111")
		require.NoError(t, err)
		assert.Equal(t, []int64{12345, 67890, 111}, ids)
	})

	t.Run("trailing comma", func(t *testing.T) {
		ids, err := parseAdminIDs("12345,")
		require.NoError(t, err)
		assert.Equal(t, []int64{12345}, ids)
	})

	t.Run("invalid entry", func(t *testing.T) {
		_, err := parseAdminIDs("12345,abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "abc")
	})
}

func TestEnvIntOrDefault_BadValueFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	assert.Equal(t, 8080, envIntOrDefault("PORT", 8080))
}

func TestEnvBoolOrDefault(t *testing.T) {
	t.Setenv("MAYA_TRACING", "1")
	assert.True(t, envBoolOrDefault("MAYA_TRACING", false))

	t.Setenv("MAYA_TRACING", "TRUE")
	assert.True(t, envBoolOrDefault("MAYA_TRACING", false))

	t.Setenv("MAYA_TRACING", "off")
	assert.False(t, envBoolOrDefault("MAYA_TRACING", true))
}
