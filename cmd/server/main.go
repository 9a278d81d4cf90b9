package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/revhook/internal/client/revolut"
	xredis "github.com/garrettladley/revhook/internal/redis"
	"github.com/garrettladley/revhook/internal/server"
	"github.com/garrettladley/revhook/internal/server/provision"
	"github.com/garrettladley/revhook/internal/storage"
	"github.com/garrettladley/revhook/internal/version"
	"github.com/garrettladley/revhook/internal/webhook"
	"github.com/garrettladley/revhook/internal/xslog"
)

const (
	keyPort  = "port"
	keyEnv   = "env"
	keyLimit = "limit"
	keyBurst = "burst"

	keyDevBuild = "dev_build"

	shutdownTimeout = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	backend, err := initBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close backend", xslog.Error(err))
		}
	}()

	store := webhook.NewStore(webhook.WithRotationGrace(cfg.Webhook.RotationGrace))

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewHandler(server.Deps{
			Logger:  logger,
			Backend: backend,
			Secrets: store,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(gctx, "starting server",
			xslog.Version(),
			slog.Bool(keyDevBuild, version.IsDevelopment(version.Get())),
			slog.String(keyPort, cfg.Port),
			slog.String(keyEnv, string(cfg.Env)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return provisionSecret(gctx, cfg, store, logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func provisionSecret(ctx context.Context, cfg server.Config, store *webhook.Store, logger *slog.Logger) error {
	if !cfg.Registers() {
		provision.Static(xslog.WithLogger(ctx, logger), store, webhook.Secret(cfg.Webhook.Secret))
		return nil
	}

	client := revolut.New(revolut.StaticSecret(cfg.Revolut.Secret),
		append(cfg.Revolut.Options(),
			revolut.WithLogger(logger),
			revolut.WithTimeout(15*time.Second),
		)...,
	)

	logger.InfoContext(ctx, "registering webhook", xslog.URL(cfg.WebhookURL()))
	return provision.NewRegistrar(store, client.Webhooks, provision.Config{
		URL:           cfg.WebhookURL(),
		Events:        webhook.DefaultEvents,
		RotateEvery:   cfg.Webhook.RotateEvery,
		RotationGrace: cfg.Webhook.RotationGrace,
	}, logger).Run(ctx)
}

func initBackend(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.Backend, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing memory backend",
			slog.Float64(keyLimit, cfg.RateLimit.Limit),
			slog.Int(keyBurst, cfg.RateLimit.Burst))
		return storage.NewMemoryBackend(cfg.RateLimit.Limit, cfg.RateLimit.Burst), nil
	}

	redisClient, err := xredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis client: %w", err)
	}

	logger.InfoContext(ctx, "initializing Redis backend",
		slog.Float64(keyLimit, cfg.RateLimit.Limit))
	backend, err := storage.NewRedisBackend(storage.RedisConfig{Client: redisClient}, int(cfg.RateLimit.Limit))
	if err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	return backend, nil
}
