// ABOUTME: Main client for the marketplace library providing search, comparison and reviews
// ABOUTME: Offers a clean API for using core functionality without HTTP dependencies

package marketplace

import (
	"context"
	"errors"
	"sync"

	"marketplace-search-api/core/compare"
	coreconfig "marketplace-search-api/core/config"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
	"marketplace-search-api/core/reviews"
	"marketplace-search-api/core/search"
	"marketplace-search-api/infrastructure/catalog"
	"marketplace-search-api/pkg/featureflags"
)

// searchCachePrefix is the key prefix of cached search results
const searchCachePrefix = "search:"

// Client is the main entry point for the marketplace library
type Client struct {
	// Core services
	searchService  *search.Service
	intentService  *search.IntentService
	compareService *compare.Service
	reviewService  *reviews.Service

	// Dependencies
	deps interfaces.Dependencies

	// Configuration
	config Config

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new marketplace client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			closeAll(config)
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		closeAll(config)
		return nil, err
	}

	deps := interfaces.Dependencies{
		Store:   config.Store,
		Reviews: config.Store,
		Cache:   config.Cache,
		Logger:  config.Logger,
		Metrics: config.Metrics,
	}

	searchOpts := append([]coreconfig.SearchOption{}, config.SearchOptions...)
	if !enabled(config.Flags, featureflags.SearchCache) {
		searchOpts = append(searchOpts, coreconfig.WithoutCache())
	}

	client := &Client{
		searchService:  search.NewService(deps, searchOpts...),
		intentService:  search.NewIntentService(deps, config.IntentTTL),
		compareService: compare.NewService(deps),
		reviewService:  reviews.NewService(deps),
		deps:           deps,
		config:         config,
	}
	if enabled(config.Flags, featureflags.IntentExpansion) {
		client.searchService.SetIntentService(client.intentService)
	}

	if config.CatalogFile != "" {
		if _, err := client.Seed(context.Background(), config.CatalogFile); err != nil {
			closeAll(config)
			return nil, err
		}
	}

	return client, nil
}

func enabled(flags featureflags.Manager, flag featureflags.FeatureFlag) bool {
	return flags == nil || flags.IsEnabled(context.Background(), flag)
}

// Close releases the stores and caches the client created
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return closeAll(c.config)
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// Seed loads a YAML catalogue into the store and drops cached search
// results. It returns the number of documents loaded.
func (c *Client) Seed(ctx context.Context, path string) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	n, err := catalog.Seed(ctx, c.config.Store, path, c.deps.Logger)
	if err != nil {
		return 0, NewError(ErrorTypeValidation, "failed to seed catalogue").
			WithCause(err).
			WithContext("path", path)
	}

	c.invalidateSearches(ctx)
	return n, nil
}

// Reset removes every catalogue document. Reviews are kept.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.config.Store.Clear(ctx); err != nil {
		return NewError(ErrorTypeUnavailable, "failed to clear store").WithCause(err)
	}
	c.invalidateSearches(ctx)
	return nil
}

type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

func (c *Client) invalidateSearches(ctx context.Context) {
	d, ok := c.config.Cache.(prefixDeleter)
	if !ok {
		return
	}
	n, err := d.DeletePrefix(ctx, searchCachePrefix)
	if err != nil {
		c.deps.Logger.Warn("Failed to invalidate cached searches", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	c.deps.Logger.Debug("Invalidated cached searches", map[string]interface{}{
		"keys": n,
	})
}

// Search searches software and service listings. Use WithTypes to narrow
// the entity types and WithFilter for category or broker type filters.
func (c *Client) Search(ctx context.Context, q string, opts ...SearchOption) ([]SearchResult, error) {
	options := SearchOptions{Types: []string{query.TypeSoftware, query.TypeService}}
	for _, opt := range opts {
		opt(&options)
	}
	return c.search(ctx, q, options)
}

// BlogSearch searches editorial articles
func (c *Client) BlogSearch(ctx context.Context, q string, opts ...SearchOption) ([]SearchResult, error) {
	options := SearchOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	options.Types = []string{query.TypeArticle}
	return c.search(ctx, q, options)
}

func (c *Client) search(ctx context.Context, q string, options SearchOptions) ([]SearchResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.searchService.Search(ctx, search.Request{
		Query:   q,
		Types:   options.Types,
		Filters: query.Filters(options.Filters),
	})
}

// SuggestIntents returns up to six search intents whose title starts with prefix
func (c *Client) SuggestIntents(ctx context.Context, prefix string) ([]IntentSuggestion, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.intentService.Suggest(ctx, prefix)
}

// Compare builds the side-by-side comparison of the given listings
func (c *Client) Compare(ctx context.Context, ids []string) (*Comparison, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.compareService.Compare(ctx, ids)
}

// SubmitReview validates and stores a review
func (c *Client) SubmitReview(ctx context.Context, in ReviewInput) (*Review, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.reviewService.Submit(ctx, reviews.Submission{
		ListingID:  in.ListingID,
		Rating:     in.Rating,
		Title:      in.Title,
		Body:       in.Body,
		AuthorName: in.AuthorName,
	})
}

// Reviews returns the newest reviews of a listing and its rating summary
func (c *Client) Reviews(ctx context.Context, listingID string, limit int) ([]Review, Rating, error) {
	if err := c.checkOpen(); err != nil {
		return nil, Rating{}, err
	}
	list, err := c.reviewService.List(ctx, listingID, limit)
	if err != nil {
		return nil, Rating{}, err
	}
	rating, err := c.reviewService.Summary(ctx, listingID)
	if err != nil {
		return nil, Rating{}, err
	}
	return list, rating, nil
}

// Ping checks the store and the cache when they support it
func (c *Client) Ping(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	for _, dep := range []interface{}{c.config.Store, c.config.Cache} {
		if p, ok := dep.(interface{ Ping(context.Context) error }); ok {
			if err := p.Ping(ctx); err != nil {
				return NewError(ErrorTypeUnavailable, "dependency unreachable").WithCause(err)
			}
		}
	}
	return nil
}

// Searcher exposes the search executor, for live search sessions
func (c *Client) Searcher() search.Searcher {
	return c.searchService
}

// SearchService returns the search executor used by the HTTP layer
func (c *Client) SearchService() *search.Service { return c.searchService }

// IntentService returns the intent autocomplete service
func (c *Client) IntentService() *search.IntentService { return c.intentService }

// CompareService returns the comparison service
func (c *Client) CompareService() *compare.Service { return c.compareService }

// ReviewService returns the reviews service
func (c *Client) ReviewService() *reviews.Service { return c.reviewService }

// Store returns the configured store
func (c *Client) Store() Store { return c.config.Store }

// Cache returns the configured cache, which may be nil
func (c *Client) Cache() interfaces.Cache { return c.config.Cache }

// validateConfig validates the client configuration
func validateConfig(config *Config) error {
	if config.Store == nil {
		return ErrNoStore
	}
	if config.Logger == nil {
		config.Logger = QuietLogger()
	}
	return nil
}

func closeAll(config Config) error {
	var errs []error
	for i := len(config.closers) - 1; i >= 0; i-- {
		if err := config.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
