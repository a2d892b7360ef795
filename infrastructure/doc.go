// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as document storage, caching, HTTP communication, logging and metrics.
//
// The infrastructure package is organized by technical concern:
//
// - store/memory: In-memory document store that evaluates filter expressions
// - store/sqlite: SQLite document and review store with a JSON query compiler
// - catalog: YAML catalogue loader for seeding stores
// - cache/memory: In-memory cache implementation using go-cache
// - cache/redis: Redis-based cache implementation
// - http/standard: Standard library HTTP client with retry logic
// - logger/logrus: Structured logger backed by logrus
// - metrics: Prometheus collectors for search and HTTP activity
//
// # Stores
//
//	store := memory.NewStore()
//	n, err := catalog.Seed(ctx, store, "config/catalog.sample.yaml", logger)
//
//	db, err := sqlite.NewStore("marketplace.db", logger)
//	defer db.Close()
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(10 * time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "http://localhost:8000/api/unified-search?q=crm")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger, err := logrus.New(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info("Processing request", map[string]interface{}{
//	    "query": "crm",
//	    "types": 2,
//	})
package infrastructure
