// ABOUTME: Main entry point for the Marketplace Search API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"marketplace-search-api/api"
	"marketplace-search-api/api/handlers"
	logruslogger "marketplace-search-api/infrastructure/logger/logrus"
	"marketplace-search-api/infrastructure/metrics"
	marketplace "marketplace-search-api/marketplace-lib"
	"marketplace-search-api/pkg/config"
	"marketplace-search-api/pkg/featureflags"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger, err := logruslogger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.Info("Starting Marketplace Search API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"store_type": cfg.Store.Type,
		"seed_file":  cfg.Store.SeedFile,
	})

	flags := featureflags.NewEnvManager("FEATURE_")
	logger.Info("Feature flags", map[string]interface{}{
		"flags": flags.GetAllFlags(),
	})

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics()
	if err := m.Register(registry); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	// Store, cache and services
	client, err := marketplace.NewClient(
		marketplace.WithLogger(logger),
		marketplace.WithMetrics(m),
		marketplace.WithFeatureFlags(flags),
		marketplace.FromConfig(cfg),
	)
	if err != nil {
		logger.Error("Failed to initialise marketplace client", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Failed to initialise marketplace client: %v", err)
	}
	defer client.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if flags.IsEnabled(ctx, featureflags.RateLimit) {
		apiConfig.RateLimit = cfg.Server.RateLimit
		apiConfig.RateWindow = cfg.Server.RateWindow
	}
	if flags.IsEnabled(ctx, featureflags.Metrics) {
		apiConfig.HTTPMetrics = m
		apiConfig.Gatherer = registry
	}
	humaAPI, router := api.NewAPIWithMiddleware(ctx, apiConfig)

	// Create and register handlers
	searchHandler := handlers.NewSearchHandler(client.SearchService(), client.IntentService())
	searchHandler.RegisterRoutes(humaAPI)

	compareHandler := handlers.NewCompareHandler(client.CompareService())
	compareHandler.RegisterRoutes(humaAPI)

	if flags.IsEnabled(ctx, featureflags.Reviews) {
		reviewHandler := handlers.NewReviewHandler(client.ReviewService())
		reviewHandler.RegisterRoutes(humaAPI)
	}

	checks := make(map[string]handlers.HealthChecker)
	if store, ok := client.Store().(handlers.HealthChecker); ok {
		checks["store"] = store
	}
	if cache, ok := client.Cache().(handlers.HealthChecker); ok {
		checks["cache"] = cache
	}
	healthHandler := handlers.NewHealthHandler(checks)
	healthHandler.RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}

func init() {
	// Print banner
	fmt.Println(`
    __  ___           __        __        __
   /  |/  /___ ______/ /_____  / /_____  / /___ _________
  / /|_/ / __ '/ ___/ //_/ _ \/ __/ __ \/ / __ '/ ___/ _ \
 / /  / / /_/ / /  / ,< /  __/ /_/ /_/ / / /_/ / /__/  __/
/_/  /_/\__,_/_/  /_/|_|\___/\__/ .___/_/\__,_/\___/\___/
                               /_/
	`)
}
