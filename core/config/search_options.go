// ABOUTME: Search configuration for service-level tuning of the executor
// ABOUTME: Provides configuration options independent of HTTP request structures

package config

import "time"

// SearchConfig controls executor limits and caching
type SearchConfig struct {
	// MaxQueryLength is the longest raw query accepted, in characters
	MaxQueryLength int

	// MaxTerms caps the number of query terms; extra terms are ignored
	MaxTerms int

	// PerTypeLimit caps the ranked results kept per entity type
	PerTypeLimit int

	// FetchCap bounds the documents read per entity type before ranking;
	// zero reads every match
	FetchCap int

	// CacheTTL is how long complete result sets stay cached; zero disables caching
	CacheTTL time.Duration

	// IntentTTL is how long the loaded search intents are reused
	IntentTTL time.Duration
}

// DefaultSearchConfig returns the default executor configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxQueryLength: 200,
		MaxTerms:       8,
		PerTypeLimit:   50,
		FetchCap:       5000,
		CacheTTL:       5 * time.Minute,
		IntentTTL:      10 * time.Minute,
	}
}

// SearchOption is a functional option for configuring search
type SearchOption func(*SearchConfig)

// WithPerTypeLimit sets the per entity type match limit
func WithPerTypeLimit(n int) SearchOption {
	return func(c *SearchConfig) {
		if n > 0 {
			c.PerTypeLimit = n
		}
	}
}

// WithFetchCap sets the pre-ranking read bound per entity type; zero or
// less reads every match
func WithFetchCap(n int) SearchOption {
	return func(c *SearchConfig) {
		if n < 0 {
			n = 0
		}
		c.FetchCap = n
	}
}

// WithCacheTTL sets the result cache TTL
func WithCacheTTL(ttl time.Duration) SearchOption {
	return func(c *SearchConfig) {
		c.CacheTTL = ttl
	}
}

// WithoutCache disables result caching
func WithoutCache() SearchOption {
	return WithCacheTTL(0)
}

// WithIntentTTL sets how long loaded intents are reused
func WithIntentTTL(ttl time.Duration) SearchOption {
	return func(c *SearchConfig) {
		c.IntentTTL = ttl
	}
}

// WithMaxTerms sets the query term cap
func WithMaxTerms(n int) SearchOption {
	return func(c *SearchConfig) {
		if n > 0 {
			c.MaxTerms = n
		}
	}
}

// NewSearchConfig creates a new search configuration with the given options
func NewSearchConfig(opts ...SearchOption) SearchConfig {
	config := DefaultSearchConfig()

	for _, opt := range opts {
		opt(&config)
	}

	return config
}
