package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meteormadness/backend/internal/config"
	"github.com/meteormadness/backend/internal/embedding"
	"github.com/meteormadness/backend/internal/handler"
	"github.com/meteormadness/backend/internal/service/ai"
	"github.com/meteormadness/backend/internal/service/rag"
	"github.com/meteormadness/backend/internal/service/session"
	"github.com/meteormadness/backend/internal/service/vector"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, continuing with system environment only", "error", err)
	}

	logger, closeLog := config.SetupLogger(os.Getenv("LOG_FILE"), logLevel())
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Vector store backend: in-memory by default, Chroma when configured.
	var store vector.Store
	switch cfg.Vector.Backend {
	case config.VectorBackendChroma:
		store = vector.NewChromaStore(cfg.Vector.ChromaURL, cfg.Vector.Timeout)
		slog.Info("using Chroma vector backend", "url", cfg.Vector.ChromaURL)
	default:
		store = vector.NewMemoryStore()
	}

	// Retrieval augmentation needs an embedding credential; without it
	// the chat endpoints run base-only.
	var ragSvc *rag.Service
	if cfg.Embedding.Enabled() {
		embedder, err := embedding.NewOpenAIClient(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Timeout)
		if err != nil {
			slog.Warn("failed to initialize embedder, retrieval augmentation disabled", "error", err)
		} else {
			ragSvc = rag.NewService(store, embedder)
			slog.Info("retrieval augmentation enabled", "model", embedder.Model())
		}
	} else {
		slog.Info("embedding credential not configured, retrieval augmentation disabled")
	}

	registryOpts := []session.Option{session.WithMaxSessions(cfg.Session.MaxSessions)}
	if ragSvc != nil {
		registryOpts = append(registryOpts, session.WithEvictionHook(func(id string) {
			if err := ragSvc.ClearSession(context.Background(), id); err != nil {
				slog.Warn("failed to clear vectors for evicted session", "sessionId", id, "error", err)
			}
		}))
	}
	registry := session.NewRegistry(registryOpts...)

	// Completion provider: missing credential keeps the server up, the
	// chat endpoints fail fast with 503.
	var client *ai.Client
	var invoker *ai.Invoker
	if cfg.AI.Enabled() {
		client, err = ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey)
		if err != nil {
			slog.Error("failed to initialize completion client", "error", err)
			os.Exit(1)
		}
		invoker = ai.NewInvoker(client, invokeDefaults(cfg.AI))
		slog.Info("AI service initialized", "model", cfg.AI.Model)
	} else {
		slog.Warn("DEEPSEEK_API_KEY not configured, chat endpoints will fail fast")
	}

	router := handler.NewRouter(registry, invoker, client, ragSvc, cfg.AI.Model)

	startServer(ctx, cfg.Server, router)
}

func invokeDefaults(cfg config.AIConfig) ai.InvokeConfig {
	defaults := ai.InvokeConfig{Model: cfg.Model}
	if cfg.Retries != nil {
		defaults.Retries = *cfg.Retries
	}
	if cfg.TimeoutMs != nil {
		defaults.Timeout = time.Duration(*cfg.TimeoutMs) * time.Millisecond
	}
	if cfg.Temperature != nil {
		defaults.Temperature = *cfg.Temperature
	}
	if cfg.MaxTokens != nil {
		defaults.MaxTokens = *cfg.MaxTokens
	}
	return defaults
}

func logLevel() slog.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Meteor Madness backend listening", "addr", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
