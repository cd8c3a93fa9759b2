package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/seongho-jang/munhakdex/internal/catalog"
	"github.com/seongho-jang/munhakdex/internal/config"
	"github.com/seongho-jang/munhakdex/internal/fetch"
	"github.com/seongho-jang/munhakdex/internal/logging"
	"github.com/seongho-jang/munhakdex/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"refresh_interval", cfg.Feed.RefreshInterval,
		"page_size", cfg.Catalog.PageSize,
		"cascade_filters", cfg.Catalog.CascadeFilters,
	)

	// Load the index definition (embedded default or file override)
	def, err := catalog.LoadDefinition(cfg.Catalog.DefinitionFile)
	if err != nil {
		slog.Error("failed to load catalog definition", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog definition loaded",
		"columns", len(def.DisplayColumns),
		"filters", len(def.FilterColumns),
	)

	// Background feed refresher
	fetcher := fetch.NewFetcher(cfg.Feed.URL, cfg.Feed.RequestTimeout)
	refresher := fetch.NewRefresher(fetcher, cfg.Feed.RefreshInterval)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go refresher.Run(jobCtx)

	server := web.NewServer(def, refresher, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background refreshes
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
