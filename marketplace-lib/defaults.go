// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions and options that build stores, caches and loggers

package marketplace

import (
	"time"

	coreconfig "marketplace-search-api/core/config"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/infrastructure/cache/memory"
	"marketplace-search-api/infrastructure/cache/redis"
	logrusInfra "marketplace-search-api/infrastructure/logger/logrus"
	memstore "marketplace-search-api/infrastructure/store/memory"
	"marketplace-search-api/infrastructure/store/sqlite"
	"marketplace-search-api/pkg/config"
)

var (
	_ Store = (*memstore.Store)(nil)
	_ Store = (*sqlite.Client)(nil)
)

// DefaultMemoryStore creates an empty in-memory store
func DefaultMemoryStore() Store {
	return memstore.NewStore()
}

// DefaultSQLiteStore opens a SQLite store at the given file path
func DefaultSQLiteStore(filePath string, logger interfaces.Logger) (*sqlite.Client, error) {
	return sqlite.NewStore(filePath, logger)
}

// DefaultMemoryCache creates a default in-memory cache
func DefaultMemoryCache() interfaces.Cache {
	return memory.NewMemoryCache(10 * time.Minute)
}

// DefaultLogger creates a default logger that writes text to stdout
func DefaultLogger() interfaces.Logger {
	logger, err := logrusInfra.New(config.LogConfig{Level: "info", Format: "text"})
	if err != nil {
		return QuietLogger()
	}
	return logger
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return interfaces.NopLogger{}
}

// StoreType represents the type of store
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeSQLite StoreType = "sqlite"
)

// StoreOption represents store configuration options
type StoreOption struct {
	Type     StoreType
	FilePath string // For SQLite store
}

// WithStoreOption creates a store based on the provided options
func WithStoreOption(opt StoreOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case StoreTypeMemory, "":
			c.Store = DefaultMemoryStore()
		case StoreTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "marketplace.db"
			}
			store, err := DefaultSQLiteStore(opt.FilePath, c.Logger)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open sqlite store").
					WithCause(err).
					WithContext("path", opt.FilePath)
			}
			c.Store = store
			c.closers = append(c.closers, store)
		default:
			return NewError(ErrorTypeConfiguration, "invalid store type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// CacheType represents the type of cache
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
	CacheTypeNone   CacheType = "none"
)

// CacheOption represents cache configuration options
type CacheOption struct {
	Type            CacheType
	Redis           config.RedisConfig // For Redis cache
	CleanupInterval time.Duration      // For memory cache
}

// WithCacheOption creates a cache based on the provided options
func WithCacheOption(opt CacheOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case CacheTypeMemory, "":
			if opt.CleanupInterval <= 0 {
				c.Cache = DefaultMemoryCache()
			} else {
				c.Cache = memory.NewMemoryCache(opt.CleanupInterval)
			}
		case CacheTypeRedis:
			cache, err := redis.NewRedisCache(opt.Redis)
			if err != nil {
				return NewError(ErrorTypeUnavailable, "failed to connect to redis").
					WithCause(err).
					WithContext("address", opt.Redis.Address)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache)
		case CacheTypeNone:
			c.Cache = nil
		default:
			return NewError(ErrorTypeConfiguration, "invalid cache type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithDefaultDependencies fills in any dependency not set by earlier options
func WithDefaultDependencies() Option {
	return func(c *Config) error {
		if c.Store == nil {
			c.Store = DefaultMemoryStore()
		}
		if c.Cache == nil {
			c.Cache = DefaultMemoryCache()
		}
		if c.Logger == nil {
			c.Logger = DefaultLogger()
		}
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}

// FromConfig applies application configuration. An unreachable Redis falls
// back to the memory cache.
func FromConfig(cfg *config.Config) Option {
	return func(c *Config) error {
		err := WithStoreOption(StoreOption{
			Type:     StoreType(cfg.Store.Type),
			FilePath: cfg.Store.SQLitePath,
		})(c)
		if err != nil {
			return err
		}

		cacheOpt := CacheOption{
			Type:            CacheType(cfg.Cache.Type),
			Redis:           cfg.Cache.Redis,
			CleanupInterval: time.Duration(cfg.Cache.Memory.DefaultExpiration) * time.Second,
		}
		if err := WithCacheOption(cacheOpt)(c); err != nil {
			if !IsUnavailableError(err) {
				return err
			}
			logger(c).Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cacheOpt.Type = CacheTypeMemory
			if err := WithCacheOption(cacheOpt)(c); err != nil {
				return err
			}
		}

		c.SearchOptions = append(c.SearchOptions,
			coreconfig.WithPerTypeLimit(cfg.Search.PerTypeLimit),
			coreconfig.WithFetchCap(cfg.Search.FetchCap),
			coreconfig.WithCacheTTL(cfg.Search.CacheTTL),
		)
		c.IntentTTL = cfg.Search.IntentTTL
		c.CatalogFile = cfg.Store.SeedFile
		return nil
	}
}

func logger(c *Config) interfaces.Logger {
	if c.Logger == nil {
		return QuietLogger()
	}
	return c.Logger
}
