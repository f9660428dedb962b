// Package main is the entrypoint for the medconsensus API server.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiranshivaraju/medconsensus/internal/aggregate"
	"github.com/kiranshivaraju/medconsensus/internal/ai"
	"github.com/kiranshivaraju/medconsensus/internal/api"
	"github.com/kiranshivaraju/medconsensus/internal/api/handler"
	mw "github.com/kiranshivaraju/medconsensus/internal/api/middleware"
	"github.com/kiranshivaraju/medconsensus/internal/cache"
	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/kiranshivaraju/medconsensus/internal/metrics"
	"github.com/kiranshivaraju/medconsensus/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Wire provider, optional infrastructure and routes
	a, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// 3. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.InferenceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// app is the wired server: its router plus the resources to release on exit.
type app struct {
	handler http.Handler
	audit   *handler.AuditRecorder
	closers []func()
}

// close waits for pending audit writes, then releases resources in reverse
// order of acquisition.
func (a *app) close() {
	a.audit.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func setup(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// AI provider and synthesis service
	provider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return fail(fmt.Errorf("create AI provider: %w", err))
	}
	slog.Info("AI provider initialized", "provider", provider.Name(), "model", provider.Model())

	gateway := ai.NewGateway(provider, cfg.AI.InferenceTimeout, m)
	svc := ai.NewSynthesisService(gateway,
		ai.WithMetrics(m),
		ai.WithContextWindow(aggregate.NewWindow(cfg.Context.WindowSize, cfg.Context.ExcludedSenders...)),
	)

	deps := api.Dependencies{
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	// Pingers stay untyped nil when a backend is disabled so health reports it
	// as disabled.
	var cachePinger, dbPinger handler.Pinger

	// Optional Redis rate limiting
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fail(fmt.Errorf("create redis cache: %w", err))
		}
		a.closers = append(a.closers, func() { redisCache.Close() })

		if err := redisCache.Ping(ctx); err != nil {
			return fail(fmt.Errorf("ping redis: %w", err))
		}
		slog.Info("redis connected, rate limiting enabled", "per_minute", cfg.RateLimit.PerMinute)

		deps.RateLimit = mw.NewRateLimit(redisCache, cfg.RateLimit.PerMinute)
		cachePinger = redisCache
	} else {
		slog.Info("REDIS_URL not set, rate limiting disabled")
	}

	// Optional Postgres audit log
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fail(fmt.Errorf("connect database: %w", err))
		}
		a.closers = append(a.closers, pool.Close)
		slog.Info("database connected")

		if err := store.RunMigrations(cfg.Database.URL, migrationsDir); err != nil {
			return fail(fmt.Errorf("run migrations: %w", err))
		}
		slog.Info("database migrations applied")

		pgStore := store.NewPostgresStore(pool)
		a.audit = handler.NewAuditRecorder(pgStore, provider.Name(), provider.Model())
		deps.ListAuditsHandler = handler.NewListAuditsHandler(pgStore)
		deps.GetAuditHandler = handler.NewGetAuditHandler(pgStore)
		dbPinger = pgStore
	} else {
		slog.Info("DATABASE_URL not set, synthesis audit disabled")
	}

	deps.HealthHandler = handler.NewHealthHandler(provider.Name(), provider.Model(), cachePinger, dbPinger)
	deps.MedicalResponseHandler = handler.NewMedicalResponseHandler(svc, a.audit)
	deps.VerdictHandler = handler.NewConsultationVerdictHandler(svc, a.audit)
	deps.FollowUpQuestionsHandler = handler.NewFollowUpQuestionsHandler(svc, a.audit)

	a.handler = api.NewRouter(deps)
	return a, nil
}
