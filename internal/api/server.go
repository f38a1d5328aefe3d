// Package api assembles the chi router, middleware stack, and routes.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/statlinehq/statline/internal/api/handler"
	"github.com/statlinehq/statline/internal/cache"
	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/db"
	"github.com/statlinehq/statline/internal/store"
	"github.com/statlinehq/statline/internal/week"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(pool *db.Pool, st store.Store, appCache *cache.Cache, cfg *config.Config,
	statsSvc handler.StatsService, chatSvc handler.ChatService, model handler.ModelStatus,
	weeks *week.FileSource) *chi.Mux {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(pool, st, appCache, cfg, statsSvc, chatSvc, model, weeks)

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
		r.Get("/ollama", h.HealthCheckOllama)
	})

	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Tool endpoints, shared with the chat tool registry. Never cached.
		r.Post("/tools/resolve-player", h.PostResolvePlayer)
		r.Post("/tools/player-stats", h.PostPlayerStats)

		// Chat
		r.Post("/chat", h.PostChat)

		// Week configuration
		r.Get("/current-week", h.GetCurrentWeek)
		r.Post("/current-week", h.SetCurrentWeek)

		// Trend and ranking pages, TTL-cached
		r.Get("/trends/hot-cold", h.GetHotCold)
		r.Get("/leaders", h.GetLeaders)
		r.Get("/defense/rankings", h.GetDefenseRankings)

		// Debug
		r.Get("/debug/players", h.DebugPlayers)
	})

	return r
}
