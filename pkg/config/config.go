// ABOUTME: Configuration management for the application with file and environment variable support
// ABOUTME: Defines configuration structures for server, cache, store, search and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Store contains content and review store configuration
	Store StoreConfig

	// Search contains search executor tuning
	Search SearchConfig

	// Log contains logger configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the number of requests allowed per client per RateWindow
	RateLimit int

	// RateWindow is the rate limiting window
	RateWindow time.Duration

	// CORSOrigins lists allowed origins; empty allows any origin
	CORSOrigins []string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// StoreConfig holds content store configuration
type StoreConfig struct {
	// Type specifies the store backend (memory/sqlite)
	Type string

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string

	// SeedFile is an optional catalogue YAML file loaded at startup
	SeedFile string
}

// SearchConfig holds search tuning
type SearchConfig struct {
	// CacheTTL is how long complete search results are cached; zero disables
	CacheTTL time.Duration

	// PerTypeLimit caps ranked results kept per entity type
	PerTypeLimit int

	// FetchCap bounds documents read per entity type before ranking; zero is unbounded
	FetchCap int

	// IntentTTL is how long loaded search intents are reused
	IntentTTL time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is the minimum level (debug/info/warn/error)
	Level string

	// Format is the output format (json/text)
	Format string

	// File, when set, sends logs to a rotating file instead of stdout
	File string

	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept
	MaxAgeDays int
}

// Load reads configuration from an optional YAML file and overlays
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", k.String("server.port"), "8000"),
			RateLimit:   getEnvAsIntOrDefault("RATE_LIMIT", k.Int("server.rate_limit"), 120),
			RateWindow:  getEnvAsDurationOrDefault("RATE_WINDOW", k.Duration("server.rate_window"), time.Minute),
			CORSOrigins: getEnvAsListOrDefault("CORS_ORIGINS", k.Strings("server.cors_origins")),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", k.String("cache.type"), "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", k.String("cache.redis.address"), "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", k.String("cache.redis.password"), ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", k.Int("cache.redis.db"), 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", k.Int("cache.memory.default_expiration"), 3600),
			},
		},
		Store: StoreConfig{
			Type:       getEnvOrDefault("STORE_TYPE", k.String("store.type"), "memory"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", k.String("store.sqlite_path"), "marketplace.db"),
			SeedFile:   getEnvOrDefault("CATALOG_SEED_FILE", k.String("store.seed_file"), ""),
		},
		Search: SearchConfig{
			CacheTTL:     getEnvAsDurationOrDefault("SEARCH_CACHE_TTL", k.Duration("search.cache_ttl"), 5*time.Minute),
			PerTypeLimit: getEnvAsIntOrDefault("SEARCH_PER_TYPE_LIMIT", k.Int("search.per_type_limit"), 50),
			FetchCap:     getEnvAsIntOrDefault("SEARCH_FETCH_CAP", k.Int("search.fetch_cap"), 5000),
			IntentTTL:    getEnvAsDurationOrDefault("SEARCH_INTENT_TTL", k.Duration("search.intent_ttl"), 10*time.Minute),
		},
		Log: LogConfig{
			Level:      strings.ToLower(getEnvOrDefault("LOG_LEVEL", k.String("log.level"), "info")),
			Format:     strings.ToLower(getEnvOrDefault("LOG_FORMAT", k.String("log.format"), "json")),
			File:       getEnvOrDefault("LOG_FILE", k.String("log.file"), ""),
			MaxSizeMB:  getEnvAsIntOrDefault("LOG_MAX_SIZE_MB", k.Int("log.max_size_mb"), 500),
			MaxBackups: getEnvAsIntOrDefault("LOG_MAX_BACKUPS", k.Int("log.max_backups"), 3),
			MaxAgeDays: getEnvAsIntOrDefault("LOG_MAX_AGE_DAYS", k.Int("log.max_age_days"), 28),
		},
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// getEnvOrDefault returns the environment variable value, the file value or a default
func getEnvOrDefault(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int, the file value or a default
func getEnvAsIntOrDefault(key string, fileValue, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	if fileValue != 0 {
		return fileValue
	}
	return defaultValue
}

// getEnvAsDurationOrDefault parses durations like "90s" or "5m"
func getEnvAsDurationOrDefault(key string, fileValue, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	if fileValue != 0 {
		return fileValue
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma separated environment variable
func getEnvAsListOrDefault(key string, fileValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fileValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1 request")
	}

	if c.Server.RateWindow <= 0 {
		return errors.New("rate window must be positive")
	}

	switch c.Cache.Type {
	case "redis", "memory", "none":
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'none'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Store.Type != "memory" && c.Store.Type != "sqlite" {
		return errors.New("store type must be 'memory' or 'sqlite'")
	}

	if c.Store.Type == "sqlite" && c.Store.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using sqlite store")
	}

	if c.Search.PerTypeLimit < 1 {
		return errors.New("search per-type limit must be at least 1")
	}

	if c.Search.FetchCap != 0 && c.Search.FetchCap < c.Search.PerTypeLimit {
		return errors.New("search fetch cap must be zero or at least the per-type limit")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.New("log format must be 'json' or 'text'")
	}

	return nil
}
