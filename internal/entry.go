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

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/extract"
	"github.com/starford/raido/internal/logfile"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/prompt"
	"github.com/starford/raido/internal/search"
)

// NewEngine builds a search engine from the configuration: the query
// parser (rule-based or LLM-with-fallback), the extraction registry,
// and the worker pool.
func NewEngine(cfg *Config, logger *slog.Logger) (*search.Engine, error) {
	parser, err := newParser(cfg, logger)
	if err != nil {
		return nil, err
	}
	return search.New(parser, extract.NewRegistry(logger),
		search.WithWorkers(cfg.Search.Workers),
		search.WithExcludes(cfg.Search.ExcludeDirs),
		search.WithLogger(logger),
	)
}

func newParser(cfg *Config, logger *slog.Logger) (prompt.Parser, error) {
	if !cfg.LLM.Enabled() {
		return prompt.RuleParser{}, nil
	}
	return prompt.NewLLMParser(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Token, logger)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("llm_mode", cfg.LLM.Mode),
		slog.Int("search_workers", cfg.Search.Workers),
		slog.String("log_level", cfg.App.LogLevel.String()))

	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	defer engine.Close()

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
	r.Mount("/api", api.NewRouter(engine, cfg.Auth.AuthEnabled(), cfg.Auth.Token))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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

// RunMCP serves the engine over MCP stdio transport. Logging goes to a
// dated file because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger, closeLog, err := logfile.Setup(cfg.App.LogDir, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	defer engine.Close()

	logger.Info("MCP server starting (stdio)", slog.String("llm_mode", cfg.LLM.Mode))

	if err := mcpserver.New(engine).ServeStdio(); err != nil {
		logger.Error("MCP server error", slog.String("error", err.Error()))
		return fmt.Errorf("mcp server error: %w", err)
	}

	logger.Info("MCP server stopped")
	return nil
}
