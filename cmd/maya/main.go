// Command maya runs the Maya Telegram assistant: a webhook HTTP server
// that relays chat messages through the conversation core.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/klaus04-hub/maya"
	"github.com/klaus04-hub/maya/observability"
	"github.com/klaus04-hub/maya/telegram"
)

func main() {
	logger := observability.NewLogrusLogger(logrus.New())

	cfg, err := loadConfig()
	if err != nil {
		logger.WithErr(err).Fatal("invalid configuration")
	}

	storage, closeStorage, err := buildStorage(cfg, logger)
	if err != nil {
		logger.WithErr(err).Fatal("failed to initialize memory storage")
	}
	defer closeStorage()

	client := maya.NewOpenAIClient(
		cfg.GrokAPIKey,
		option.WithBaseURL(cfg.GrokBaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	var provider maya.LLMProvider = maya.NewOpenAILLMProvider(maya.OpenAIProviderConfig{
		Client: client,
		Model:  cfg.Model,
	})
	if cfg.TracingEnabled {
		provider = maya.NewTracingLLMProvider(provider)
	}

	request := maya.NewLLMRequest(maya.NewRequestConfig(), provider)
	completion := maya.NewCompletionClient(request, logger)
	history := maya.NewHistoryManager(storage, cfg.MaxHistory, logger)
	orchestrator := maya.NewOrchestrator(history, completion, "", logger)

	tgClient := telegram.NewClient(cfg.TelegramToken, cfg.RequestTimeout)
	bot := telegram.NewBot(tgClient, orchestrator, cfg.AdminIDs, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/set-webhook", func(w http.ResponseWriter, r *http.Request) {
		if err := bot.RegisterWebhook(cfg.WebhookBaseURL + telegram.WebhookPath); err != nil {
			logger.WithErr(err).Error("webhook registration failed")
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}
		logger.Infof("webhook registered: %s%s", cfg.WebhookBaseURL, telegram.WebhookPath)
		_, _ = w.Write([]byte("Webhook configurado"))
	})
	mux.HandleFunc(telegram.WebhookPath, bot.WebhookHandler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithErr(err).Error("server shutdown failed")
		}
	}()

	logger.Infof("listening on :%d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithErr(err).Fatal("server failed")
	}
}

// buildStorage constructs the configured MemoryStorage backend and
// returns it with its cleanup function.
func buildStorage(cfg config, logger observability.Logger) (maya.MemoryStorage, func(), error) {
	switch cfg.MemoryBackend {
	case "memory":
		return maya.NewInMemoryMemoryStorage(cfg.Retention), func() {}, nil

	case "sqlite":
		storage, err := maya.NewSQLiteMemoryStorage(cfg.SQLitePath, cfg.Retention, logger)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = storage.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("postgres unreachable: %w", err)
		}
		storage, err := maya.NewPostgresMemoryStorage(db, cfg.Retention, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage, func() { _ = db.Close() }, nil

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		logger.Info("redis connected")
		return maya.NewRedisMemoryStorage(client, cfg.Retention), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown MEMORY_BACKEND %q", cfg.MemoryBackend)
	}
}
