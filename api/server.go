// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, request validation, middleware and the metrics endpoint

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-search-api/api/handlers"
	"marketplace-search-api/api/middleware"
	"marketplace-search-api/core/interfaces"
)

const (
	apiTitle       = "Marketplace Search API"
	apiVersion     = "1.0.0"
	apiDescription = "Search software and service listings, compare them side by side and collect user reviews"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger      interfaces.Logger
	RateLimit   int           // requests per window
	RateWindow  time.Duration // rate limit window
	CORSOrigins []string      // empty allows any origin

	// HTTPMetrics records per-route request metrics when set
	HTTPMetrics middleware.HTTPRecorder

	// Gatherer is exposed at /metrics when set
	Gatherer prometheus.Gatherer
}

func init() {
	huma.NewError = handlers.NewError
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Window", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}

func humaConfig() huma.Config {
	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = apiDescription
	return config
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(corsHandler(nil))

	// The OpenAPI spec is served at /openapi.json and the docs UI at /docs
	api := humachi.New(router, humaConfig())

	return api, router
}

// NewAPIWithMiddleware creates a new API with middleware configured. Rate
// limiter bookkeeping runs until ctx is cancelled.
func NewAPIWithMiddleware(ctx context.Context, cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// Configure CORS (should be first middleware)
	router.Use(corsHandler(cfg.CORSOrigins))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.HTTPMetrics != nil {
		router.Use(middleware.MetricsMiddleware(cfg.HTTPMetrics))
	}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		go limiter.RunEviction(ctx)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	api := humachi.New(router, humaConfig())

	return api, router
}
