// ABOUTME: Public types for the marketplace library API
// ABOUTME: Re-exports the domain models and defines per-search options

package marketplace

import (
	"context"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// Domain types returned by the client
type (
	SearchResult     = domain.SearchResult
	Listing          = domain.Listing
	Article          = domain.Article
	Comparison       = domain.Comparison
	Review           = domain.Review
	Rating           = domain.Rating
	IntentSuggestion = domain.IntentSuggestion
)

// Store is a content store that also persists reviews and accepts
// catalogue documents. Both bundled stores implement it.
type Store interface {
	interfaces.ContentStore
	interfaces.ReviewStore
	Put(ctx context.Context, docs ...query.Document) error
	Clear(ctx context.Context) error
}

// ReviewInput is a review as submitted by a user
type ReviewInput struct {
	ListingID  string
	Rating     int
	Title      string
	Body       string
	AuthorName string
}

// SearchOptions holds per-search settings
type SearchOptions struct {
	// Types restricts the entity types searched
	Types []string

	// Filters maps a filter name (category, brokerType, blogType, author)
	// to a key or title; "all" and empty values do not constrain
	Filters map[string]string
}

// SearchOption is a functional option for a single search
type SearchOption func(*SearchOptions)

// WithTypes restricts the entity types searched
func WithTypes(types ...string) SearchOption {
	return func(o *SearchOptions) {
		o.Types = types
	}
}

// WithFilter adds a structured filter
func WithFilter(name, value string) SearchOption {
	return func(o *SearchOptions) {
		if o.Filters == nil {
			o.Filters = make(map[string]string)
		}
		o.Filters[name] = value
	}
}
