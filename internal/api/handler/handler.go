// Package handler provides HTTP handlers for all API endpoints. Player
// lookups go through the resolver and aggregator services; trend and ranking
// pages read the hosted tables directly and are TTL-cached.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/statlinehq/statline/internal/api/respond"
	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/chat"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/db"
	"github.com/statlinehq/statline/internal/resolve"
	"github.com/statlinehq/statline/internal/stats"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/week"
)

// StatsService answers player-stats requests with an HTTP status and body.
type StatsService interface {
	GetPlayerStats(ctx context.Context, req stats.Request) (int, any)
	Resolve(ctx context.Context, name string) resolve.Resolution
}

// ChatService runs one conversational turn.
type ChatService interface {
	Turn(ctx context.Context, req chat.Request) chat.Response
}

// ModelStatus reports on the language model endpoint.
type ModelStatus interface {
	Model() string
	Healthy(ctx context.Context) bool
	Models(ctx context.Context) ([]string, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool   *db.Pool
	store  store.Store
	cache  *cache.Cache
	cfg    *config.Config
	stats  StatsService
	chat   ChatService
	model  ModelStatus
	weeks  *week.FileSource
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, st store.Store, c *cache.Cache, cfg *config.Config,
	statsSvc StatsService, chatSvc ChatService, model ModelStatus, weeks *week.FileSource) *Handler {
	return &Handler{
		pool:  pool,
		store: st,
		cache: c,
		cfg:   cfg,
		stats: statsSvc,
		chat:  chatSvc,
		model: model,
		weeks: weeks,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Statline API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"features": []string{
			"table_fallback_retrieval",
			"player_name_resolution",
			"authoritative_summaries",
			"ollama_chat",
			"in_memory_cache",
			"etag_support",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckOllama probes the language model endpoint. The API stays
// healthy when the model is down; chat degrades to canned responses.
// @Summary Ollama health check
// @Description Probes the local Ollama endpoint and lists available models.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/ollama [get]
func (h *Handler) HealthCheckOllama(w http.ResponseWriter, r *http.Request) {
	healthy := h.model.Healthy(r.Context())
	body := map[string]any{
		"status":    "offline",
		"model":     h.model.Model(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if healthy {
		body["status"] = "online"
		if models, err := h.model.Models(r.Context()); err == nil {
			body["available_models"] = models
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}
