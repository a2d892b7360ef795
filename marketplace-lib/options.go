// ABOUTME: Configuration options for the marketplace library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package marketplace

import (
	"io"
	"time"

	coreconfig "marketplace-search-api/core/config"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/pkg/featureflags"
)

// Config holds the configuration for the client
type Config struct {
	// Store holds catalogue documents and reviews
	Store Store

	// Cache stores complete search results; optional
	Cache interfaces.Cache

	// Logger receives structured logs
	Logger interfaces.Logger

	// Metrics records search activity; optional
	Metrics interfaces.SearchMetrics

	// SearchOptions tune the search executor
	SearchOptions []coreconfig.SearchOption

	// IntentTTL is how long loaded search intents are reused
	IntentTTL time.Duration

	// CatalogFile is a YAML catalogue loaded when the client is created
	CatalogFile string

	// Flags switch intent expansion and result caching; nil enables both
	Flags featureflags.Manager

	// closers are resources created by options and released by Close
	closers []io.Closer
}

// Option is a functional option for configuring the client
type Option func(*Config) error

func defaultConfig() Config {
	return Config{
		IntentTTL: coreconfig.DefaultSearchConfig().IntentTTL,
	}
}

// WithStore sets the content and review store
func WithStore(store Store) Option {
	return func(c *Config) error {
		c.Store = store
		return nil
	}
}

// WithCache sets a custom cache implementation
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics sets the search metrics recorder
func WithMetrics(metrics interfaces.SearchMetrics) Option {
	return func(c *Config) error {
		c.Metrics = metrics
		return nil
	}
}

// WithSearchOptions appends search executor options
func WithSearchOptions(opts ...coreconfig.SearchOption) Option {
	return func(c *Config) error {
		c.SearchOptions = append(c.SearchOptions, opts...)
		return nil
	}
}

// WithIntentTTL sets how long loaded search intents are reused
func WithIntentTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		if ttl < 0 {
			return NewError(ErrorTypeConfiguration, "intent TTL cannot be negative").
				WithContext("ttl", ttl.String())
		}
		c.IntentTTL = ttl
		return nil
	}
}

// WithCatalogFile loads a YAML catalogue into the store when the client is created
func WithCatalogFile(path string) Option {
	return func(c *Config) error {
		c.CatalogFile = path
		return nil
	}
}

// WithFeatureFlags sets the flag manager consulted when the client is built
func WithFeatureFlags(flags featureflags.Manager) Option {
	return func(c *Config) error {
		c.Flags = flags
		return nil
	}
}
