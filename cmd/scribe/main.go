package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/af-corp/scribe/internal/auth"
	"github.com/af-corp/scribe/internal/config"
	"github.com/af-corp/scribe/internal/generator"
	"github.com/af-corp/scribe/internal/pricing"
	"github.com/af-corp/scribe/internal/provider"
	"github.com/af-corp/scribe/internal/ratelimit"
	"github.com/af-corp/scribe/internal/sanitize"
	"github.com/af-corp/scribe/internal/server"
	"github.com/af-corp/scribe/internal/telemetry"
	"github.com/af-corp/scribe/internal/template"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(bootLogger)

	// Load configuration
	loader := config.NewLoader(*configDir, bootLogger)
	if err := loader.Load(); err != nil {
		bootLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := loader.Config()
	logger := buildLogger(cfg.Telemetry)
	slog.SetDefault(logger)

	// Pricing table, refreshed on config reload
	prices := pricing.NewTable(loader.Pricing().Pricing, logger)

	// Template store: built-ins plus any configured extras
	store := template.NewStoreWithBuiltins()
	registerConfigured := func() {
		for _, t := range loader.Templates().Templates {
			store.Register(t)
		}
	}
	registerConfigured()

	loader.OnReload(func() {
		prices.Update(loader.Pricing().Pricing)
		registerConfigured()
		logger.Info("pricing and templates reloaded")
	})
	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Connect to Redis (rate limiting and budget tracking)
	var rdb *redis.Client
	if cfg.Redis.Enabled && cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting fails open)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	metrics := telemetry.NewMetrics()

	// Completion backend with retry wrapper
	completer := buildCompleter(cfg.Provider, logger)

	gen := generator.New(store, completer, prices, generator.Options{
		Model:              cfg.Generation.Model,
		DefaultTemperature: cfg.Generation.DefaultTemperature,
		DefaultMaxTokens:   cfg.Generation.DefaultMaxTokens,
		CacheEnabled:       cfg.Generation.CacheEnabled,
		CacheCapacity:      cfg.Generation.CacheCapacity,
		HistoryCapacity:    cfg.Generation.HistoryCapacity,
	},
		generator.WithLogger(logger),
		generator.WithMetrics(metrics),
		generator.WithScanner(sanitize.NewScanner(cfg.Sanitizer.Enabled)),
	)

	// Router setup
	apiHandler := server.NewHandler(gen, logger)
	routeOpts := server.Options{Version: version}
	if cfg.Auth.Enabled {
		routeOpts.Keys = auth.NewStaticKeySet(cfg.Auth.APIKeys)
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(rdb)
		budget := ratelimit.NewBudgetTracker(rdb)
		routeOpts.RateLimit = ratelimit.Middleware(limiter, budget,
			ratelimit.MicroUSD(cfg.RateLimit.DailyBudgetUSD),
			cfg.RateLimit.RequestsPerMinute, metrics)
		if cfg.RateLimit.DailyBudgetUSD > 0 {
			apiHandler.Spend = budget
		}
	}
	handler := server.Routes(apiHandler, routeOpts)

	// Metrics endpoint on its own port
	if cfg.Telemetry.MetricsPort > 0 {
		go func() {
			mr := chi.NewRouter()
			mr.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
			logger.Info("metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mr); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("scribe starting", "addr", addr, "version", version,
			"model", cfg.Generation.Model, "provider", cfg.Provider.Type)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("scribe stopped")
}

func buildLogger(cfg config.TelemetryConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func buildCompleter(cfg config.ProviderConfig, logger *slog.Logger) provider.Completer {
	var inner provider.Completer
	if cfg.Type == "mock" {
		logger.Warn("using mock completion backend, no real provider calls will be made")
		inner = provider.NewMock()
	} else {
		inner = provider.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, nil)
	}
	return provider.NewRetryClient(inner, logger,
		provider.WithAttempts(cfg.RetryAttempts),
		provider.WithBackoffBase(cfg.RetryBaseDelay),
		provider.WithAttemptTimeout(cfg.Timeout),
	)
}
