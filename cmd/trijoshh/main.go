package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trijoshh/internal/auth"
	"trijoshh/internal/cache"
	"trijoshh/internal/cli"
	"trijoshh/internal/core"
	"trijoshh/internal/events"
	"trijoshh/internal/expense"
	apphttp "trijoshh/internal/http"
	"trijoshh/internal/kv"
	"trijoshh/internal/services"
	"trijoshh/internal/suggest"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable store holds accounts and expense collections; the session
	// store is volatile and empties on every restart.
	durable := cli.OpenDurableStore(logger, cfg.SQLiteDBPath)
	defer durable.Close()
	session := kv.NewMemoryStore()

	// Category suggestions are optional: without an API key the endpoint
	// still responds, always with no suggestion.
	var gen suggest.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := suggest.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		gen = gemini
		logger.Info("Category suggestions enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Category suggestions disabled - no GEMINI_API_KEY provided")
	}
	suggestCache := cache.NewLRU[core.Category](cfg.SuggestCacheSize, cfg.SuggestCacheTTL)
	suggestClient := suggest.NewClient(gen, suggestCache)

	// Expense event publishing is optional as well.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Expense event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Expense event publishing disabled - no AMQP_URL provided")
	}

	app := services.NewApp(ctx,
		auth.NewService(durable, session),
		expense.NewRepository(durable),
		publisher)

	srv := apphttp.NewServer(":"+cfg.Port, app, suggestClient, apphttp.Options{
		SuggestDebounce:  cfg.SuggestDebounce,
		SuggestMinLength: cfg.SuggestMinLength,
		RateLimitPerMin:  cfg.RateLimitPerMinute,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting trijoshh server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SuggestCacheTTL)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := suggestCache.CleanExpired(); n > 0 {
					logger.Info("Cleaned expired suggestion cache entries", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
