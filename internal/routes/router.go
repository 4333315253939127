package routes

import (
	"net/http"
	"strings"
	"time"

	"tacticalops/clanhub/internal/api"
	"tacticalops/clanhub/internal/config"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes builds the HTTP handler. redisClient may be nil.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, sqlDB *sqlx.DB, redisClient *redis.Client, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// A nil *redis.Client must not reach the health check as a non-nil interface.
	var health redis.UniversalClient
	if redisClient != nil {
		health = redisClient
	}
	r.Get("/healthCheck", api.HealthCheckHandler(sqlDB, health, upSince))
	r.Handle("/metrics", promhttp.Handler())

	if base := cfg.Logo.BaseURL; strings.HasPrefix(base, "/") {
		prefix := strings.TrimSuffix(base, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Logo.Dir))))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, "127.0.0.1")
	handlers := api.NewHandlers(deps.Services.Clans)
	RegisterAPIRoutes(r, handlers, deps, limiter)

	return r
}
