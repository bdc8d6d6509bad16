package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-planner/internal/curriculum"
	"github.com/p-n-ai/pai-planner/internal/events"
	"github.com/p-n-ai/pai-planner/internal/httpapi"
	"github.com/p-n-ai/pai-planner/internal/plancache"
	"github.com/p-n-ai/pai-planner/internal/platform/cache"
	"github.com/p-n-ai/pai-planner/internal/platform/clock"
	"github.com/p-n-ai/pai-planner/internal/platform/config"
	"github.com/p-n-ai/pai-planner/internal/platform/database"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stdout))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	deps, cleanup, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     httpapi.New(deps).Handler(),
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: countdown streams are long-lived websocket connections.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

// wire connects the configured backends and returns the HTTP server dependencies.
// The returned cleanup closes every opened connection.
func wire(ctx context.Context, cfg *config.Config) (httpapi.Config, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return httpapi.Config{}, cleanup, err
	}
	lang, err := cfg.Language()
	if err != nil {
		return httpapi.Config{}, cleanup, err
	}

	deps := httpapi.Config{
		Clock:          clock.Real{Location: loc},
		Language:       lang,
		StreamInterval: cfg.Countdown.Interval,
		ReadyChecks:    map[string]httpapi.HealthCheck{},
	}

	topics, err := curriculum.NewLoader(cfg.CurriculumPath)
	if err != nil {
		return httpapi.Config{}, cleanup, err
	}
	deps.Topics = topics

	switch cfg.Progress.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			cleanup()
			return httpapi.Config{}, func() {}, fmt.Errorf("connecting to database: %w", err)
		}
		closers = append(closers, db.Close)

		store, err := progress.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			cleanup()
			return httpapi.Config{}, func() {}, err
		}
		deps.Progress = store

		logger, err := events.NewPostgresLogger(ctx, db.Pool)
		if err != nil {
			cleanup()
			return httpapi.Config{}, func() {}, err
		}
		deps.Events = logger
		deps.ReadyChecks["database"] = db.HealthCheck
	default:
		deps.Progress = progress.NewMemoryStore()
	}

	if cfg.PlanCache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			cleanup()
			return httpapi.Config{}, func() {}, fmt.Errorf("connecting to cache: %w", err)
		}
		closers = append(closers, func() { _ = c.Close() })

		deps.PlanCache = plancache.NewRedisCache(c, cfg.PlanCache.TTL)
		deps.ReadyChecks["cache"] = c.HealthCheck
	}

	slog.Info("backends ready",
		"progress", cfg.Progress.Backend,
		"plan_cache", cfg.PlanCache.Enabled,
		"timezone", loc.String(),
		"language", lang.String(),
	)
	return deps, cleanup, nil
}

// newLogger builds the process logger from LEARN_LOG_LEVEL and LEARN_LOG_FORMAT.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
