// cmd/leadgen/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadgen/internal/common/config"
	"leadgen/internal/common/database"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/observability"
	"leadgen/internal/httpapi"
	"leadgen/internal/leads/app"
	"leadgen/internal/leads/geocode"
	"leadgen/internal/leads/search"
	"leadgen/internal/leads/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting lead generation service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := cfg.Server.SessionTTLDuration()

	// --- Session store: redis when configured, process memory otherwise ---
	var (
		store    app.Store
		memStore *session.MemoryStore
		cache    redis.Cmdable
		ready    httpapi.ReadinessCheck
	)
	if cfg.Database.Redis.Enabled() {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))

		store = session.NewRedisStore(rdb.Client, ttl)
		cache = rdb.Client
		ready = rdb.Ping
	} else {
		memStore = session.NewMemoryStore(ttl)
		store = memStore
		zapLog.Info("Redis not configured, keeping sessions in memory")
	}

	// --- External clients ---
	searchCfg := &search.Config{
		APIKey:  cfg.APIs.GenAI.APIKey,
		Model:   cfg.APIs.GenAI.Model,
		Country: cfg.APIs.GenAI.Country,
		Timeout: config.GetDuration(cfg.APIs.GenAI.Timeout),
	}
	generator, err := search.NewGenAIGenerator(ctx, searchCfg)
	if err != nil {
		zapLog.Fatal("GenAI client init failed", zap.Error(err))
	}
	searcher := search.NewClient(searchCfg, generator, log, obs)

	geocoder := geocode.NewClient(&geocode.Config{
		BaseURL:     cfg.Geocode.BaseURL,
		UserAgent:   cfg.Geocode.UserAgent,
		CountryCode: cfg.APIs.GenAI.CountryCode,
		Rate:        cfg.Geocode.Rate,
		Timeout:     config.GetDuration(cfg.Geocode.Timeout),
		CacheTTL:    time.Duration(cfg.Geocode.CacheTTL) * time.Second,
	}, cache, log)

	controller := app.NewController(store, searcher, geocoder, log)

	server := httpapi.NewServer(&httpapi.Config{
		CookieName: cfg.Server.CookieName,
		SessionTTL: ttl,
	}, controller, ready, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if memStore != nil {
		g.Go(func() error {
			return memStore.Run(gctx, time.Minute)
		})
	}

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("service stopped with error", zap.Error(err))
		return
	}
	zapLog.Info("Lead generation service stopped gracefully")
}
