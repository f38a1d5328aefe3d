// Command api is the Statline API server.
//
// Usage:
//
//	statline-api
//	API_PORT=8080 statline-api

// @title Statline API
// @version 1.0.0
// @description NFL stats API serving player game logs with table-fallback retrieval, name resolution, trend pages, and a tool-grounded chat endpoint backed by a local Ollama model.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Statline
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/statlinehq/statline/internal/api"
	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/chat"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/db"
	"github.com/statlinehq/statline/internal/ollama"
	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/tools"
	"github.com/statlinehq/statline/internal/week"

	_ "github.com/statlinehq/statline/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Domain wiring: one store feeds the resolver, the aggregator, and the
	// trend pages.
	st := store.NewPGStore(pool.Pool)
	weeks := week.NewFileSource(cfg.WeekConfigPath, config.CurrentSeason)
	resolver := resolve.New(st, logger)
	aggregator := stats.New(st, weeks, logger)
	statsSvc := stats.NewService(resolver, aggregator)

	model := ollama.New(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaTimeout)
	if model.Healthy(ctx) {
		logger.Info("Ollama endpoint online", "model", cfg.OllamaModel)
	} else {
		logger.Warn("Ollama endpoint unreachable, chat will use canned responses",
			"base_url", cfg.OllamaBaseURL)
	}
	chatSvc := chat.New(model, tools.NewRegistry(statsSvc), statsSvc, logger)

	router := api.NewRouter(pool, st, appCache, cfg, statsSvc, chatSvc, model, weeks)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Statline API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
