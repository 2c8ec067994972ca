package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/ladle/api"
	"github.com/use-agent/ladle/cache"
	"github.com/use-agent/ladle/config"
	"github.com/use-agent/ladle/extract"
	"github.com/use-agent/ladle/fetcher"
	"github.com/use-agent/ladle/monitoring"
	"github.com/use-agent/ladle/pipeline"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("ladle starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	// ── 3. Build the site-rule registry ─────────────────────────────
	rules := extract.NewRuleRegistry()
	if cfg.SiteRules.RulesFile != "" {
		if err := rules.LoadFile(cfg.SiteRules.RulesFile); err != nil {
			slog.Error("failed to load site rules", "file", cfg.SiteRules.RulesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("site rules loaded", "file", cfg.SiteRules.RulesFile, "domains", rules.Len())
	}

	// ── 4. Assemble the import pipeline ─────────────────────────────
	f := fetcher.New(cfg.Fetcher.Timeout)
	importer := pipeline.New(f, extract.DefaultChain(rules))

	// ── 4b. Initialise cache + metrics ──────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries)
	metrics := monitoring.NewMetrics()

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(importer, cfg, cc, metrics, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight imports 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("ladle stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
