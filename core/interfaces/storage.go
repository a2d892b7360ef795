// ABOUTME: Storage interfaces for the content store and review persistence
// ABOUTME: Defines contracts for declarative document queries and rating storage

package interfaces

import (
	"context"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/query"
)

// ContentStore executes declarative filter + projection queries. A store
// resolves reference dereferences inside the query itself and returns one
// projected document per match.
type ContentStore interface {
	Query(ctx context.Context, q query.Query) ([]query.Document, error)
}

// ReviewStore persists user-submitted reviews
type ReviewStore interface {
	// Save persists a review
	Save(ctx context.Context, review *domain.Review) error

	// ListByListing returns the newest reviews of a listing, at most limit
	ListByListing(ctx context.Context, listingID string, limit int) ([]domain.Review, error)

	// Aggregates returns the rating summary of each listing that has reviews
	Aggregates(ctx context.Context, listingIDs []string) (map[string]domain.Rating, error)
}
