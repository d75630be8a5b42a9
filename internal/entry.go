// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/hallgrim/skald/internal/api"
	"github.com/hallgrim/skald/internal/archive"
	"github.com/hallgrim/skald/internal/mcpserver"
	"github.com/hallgrim/skald/internal/pipeline"
	"github.com/hallgrim/skald/internal/scheduler"
	signalpkg "github.com/hallgrim/skald/internal/signal"
	"github.com/hallgrim/skald/internal/source"
	"github.com/hallgrim/skald/internal/sse"
	"github.com/hallgrim/skald/internal/storage"
	"github.com/hallgrim/skald/internal/summaryservice"
)

// newLogger builds the structured JSON logger and installs it as default.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openStores creates the transcripts and summaries file trees.
func openStores(cfg *Config) (transcripts, summaries *storage.FS, err error) {
	for _, p := range []string{cfg.Transcripts.Path, cfg.Summaries.Path} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create dir %s: %w", p, err)
		}
	}
	transcripts, err = storage.NewFS(cfg.Transcripts.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init transcripts storage: %w", err)
	}
	summaries, err = storage.NewFS(cfg.Summaries.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init summaries storage: %w", err)
	}
	return transcripts, summaries, nil
}

// buildSources turns the configuration into concrete message sources. Sources
// with no configured channels are skipped.
func buildSources(cfg *Config) ([]scheduler.SourceChannels, error) {
	var out []scheduler.SourceChannels
	if len(cfg.Discord.Channels) > 0 {
		d, err := source.NewDiscord(cfg.Discord.Token)
		if err != nil {
			return nil, fmt.Errorf("init discord source: %w", err)
		}
		out = append(out, scheduler.SourceChannels{Source: d, Channels: cfg.Discord.Channels})
	}
	if len(cfg.Slack.Channels) > 0 {
		out = append(out, scheduler.SourceChannels{
			Source:   source.NewSlack(cfg.Slack.Token),
			Channels: cfg.Slack.Channels,
		})
	}
	return out, nil
}

// RunCollect fetches yesterday's window for every configured channel and
// writes the transcripts. Used by the one-shot CLI command.
func RunCollect(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	logger := newLogger(cfg)

	transcripts, summaries, err := openStores(cfg)
	if err != nil {
		return err
	}

	sources := app.sources
	if sources == nil {
		if sources, err = buildSources(cfg); err != nil {
			return err
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured")
	}

	pipe := pipeline.New(transcripts, summaries, signalpkg.Rules{}, logger)
	for _, sc := range sources {
		if _, err := pipe.Collect(ctx, sc.Source, sc.Channels, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

// RunSummarize renders summaries for one archived day (empty day means
// today). Used by the one-shot CLI command.
func RunSummarize(_ context.Context, day string, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	logger := newLogger(cfg)

	transcripts, summaries, err := openStores(cfg)
	if err != nil {
		return err
	}

	pipe := pipeline.New(transcripts, summaries, signalpkg.Rules{}, logger)
	return pipe.Summarize(day, time.Now())
}

// RunMCP starts the MCP server on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// MCP speaks JSON-RPC over stdout, so logs must not go there.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	transcripts, summaries, err := openStores(cfg)
	if err != nil {
		return err
	}

	db, err := archive.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	defer db.Close()

	if err := archive.Sync(db, transcripts, signalpkg.Rules{}, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := summaryservice.NewService(transcripts, summaries, db)
	return mcpserver.New(svc).ServeStdio()
}

// Run starts the long-running server: scheduler, archive watcher, SSE broker,
// and the HTTP API.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("transcripts_path", cfg.Transcripts.Path),
		slog.String("summaries_path", cfg.Summaries.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("cron", cfg.Schedule.Cron),
		slog.String("log_level", cfg.App.LogLevel.String()))

	transcripts, summaries, err := openStores(cfg)
	if err != nil {
		return err
	}

	db, err := archive.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	defer db.Close()

	classifier := signalpkg.Rules{}

	// Run initial sync.
	if err := archive.Sync(db, transcripts, classifier, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	sources := app.sources
	if sources == nil {
		if sources, err = buildSources(cfg); err != nil {
			return err
		}
	}

	pipe := pipeline.New(transcripts, summaries, classifier, logger)
	sched, err := scheduler.New(cfg.Schedule.Cron, pipe, sources, logger)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build API service and router.
	svc := summaryservice.NewService(transcripts, summaries, db)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Start archive watcher with SSE callback.
	g.Go(func() error {
		err := archive.Watch(gCtx, db, transcripts, cfg.Transcripts.Path, classifier, logger, func(kind, path string) {
			broker.PublishTranscriptEvent(kind, path)
		})
		if err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start the cron scheduler.
	g.Go(func() error {
		if err := sched.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler error: %w", err)
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
