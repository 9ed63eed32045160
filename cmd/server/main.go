package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/slidedeck/internal/api"
	"github.com/dgallion1/slidedeck/internal/config"
	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/metrics"
	"github.com/dgallion1/slidedeck/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize the deck library.
	loader := deck.NewLoader(cfg.DeckOptions(), log, m)
	lib := deck.NewLibrary(loader, cfg.CacheTTL, log, m)

	if cfg.WatchContent {
		go func() {
			err := deck.Watch(ctx, cfg.ContentDir, log, func(string) { lib.Invalidate() })
			if err != nil {
				log.Error("content watcher stopped", "error", err)
			}
		}()
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, loader, log, m)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(lib, orch, m, prometheus.DefaultGatherer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting slidedeck", "port", cfg.Port, "content_dir", cfg.ContentDir, "auth", cfg.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
