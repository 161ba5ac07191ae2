package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// config is built once at startup and passed by reference into the
// component constructors; nothing reads the environment after this.
type config struct {
	TelegramToken  string
	GrokAPIKey     string
	GrokBaseURL    string
	Model          string
	WebhookBaseURL string
	Port           int
	AdminIDs       []int64

	MemoryBackend string
	RedisURL      string
	SQLitePath    string
	PostgresDSN   string
	MaxHistory    int
	Retention     time.Duration

	RequestTimeout time.Duration
	TracingEnabled bool
}

// loadConfig reads configuration from environment variables. Missing
// credentials are an error: the process must refuse to start rather
// than run partially configured.
func loadConfig() (config, error) {
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	if telegramToken == "" {
		return config{}, fmt.Errorf("TELEGRAM_TOKEN is required in environment")
	}
	grokAPIKey := os.Getenv("GROK_API_KEY")
	if grokAPIKey == "" {
		return config{}, fmt.Errorf("GROK_API_KEY is required in environment")
	}

	webhookBase := os.Getenv("WEBHOOK_BASE_URL")
	if webhookBase != "" && !strings.HasPrefix(webhookBase, "http") {
		webhookBase = "https://" + webhookBase
	}

	adminIDs, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return config{}, err
	}

	return config{
		TelegramToken:  telegramToken,
		GrokAPIKey:     grokAPIKey,
		GrokBaseURL:    envOrDefault("GROK_API_BASE_URL", "https://api.x.ai/v1"),
		Model:          envOrDefault("GROK_MODEL", "grok-beta"),
		WebhookBaseURL: webhookBase,
		Port:           envIntOrDefault("PORT", 8080),
		AdminIDs:       adminIDs,
		MemoryBackend:  envOrDefault("MEMORY_BACKEND", "redis"),
		RedisURL:       envOrDefault("REDIS_URL", "redis://localhost:6379"),
		SQLitePath:     envOrDefault("SQLITE_PATH", "/state/maya.db"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		MaxHistory:     envIntOrDefault("MAX_HISTORY", 10),
		Retention:      time.Duration(envIntOrDefault("MEMORY_RETENTION_DAYS", 7)) * 24 * time.Hour,
		RequestTimeout: time.Duration(envIntOrDefault("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		TracingEnabled: envBoolOrDefault("MAYA_TRACING", false),
	}, nil
}

func parseAdminIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
