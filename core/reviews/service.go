// ABOUTME: Reviews service validates and persists user ratings of listings
// ABOUTME: Also serves review listings and per-listing rating aggregates

package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// Page size bounds for List
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service handles review operations
type Service struct {
	deps interfaces.Dependencies
	now  func() time.Time
}

// NewService creates a new reviews service instance
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{
		deps: deps,
		now:  time.Now,
	}
}

// Submission is a review as submitted by a user
type Submission struct {
	ListingID  string
	Rating     int
	Title      string
	Body       string
	AuthorName string
}

func validate(sub Submission) error {
	if sub.ListingID == "" {
		return &coreerrors.ValidationError{Field: "listingId", Message: "listing id is required"}
	}
	if sub.Rating < 1 || sub.Rating > 5 {
		return &coreerrors.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if utf8.RuneCountInString(sub.Body) > domain.MaxReviewBodyLength {
		return &coreerrors.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("body cannot exceed %d characters", domain.MaxReviewBodyLength),
		}
	}
	return nil
}

// Submit validates and stores a review. When a content store is configured
// the listing must exist.
func (s *Service) Submit(ctx context.Context, sub Submission) (*domain.Review, error) {
	sub.ListingID = strings.TrimSpace(sub.ListingID)
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Body = strings.TrimSpace(sub.Body)
	sub.AuthorName = strings.TrimSpace(sub.AuthorName)

	if err := validate(sub); err != nil {
		return nil, err
	}
	if s.deps.Reviews == nil {
		return nil, fmt.Errorf("review store not configured")
	}
	if err := s.ensureListing(ctx, sub.ListingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		ListingID:  sub.ListingID,
		Rating:     sub.Rating,
		Title:      sub.Title,
		Body:       sub.Body,
		AuthorName: sub.AuthorName,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.deps.Reviews.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.logger().Info("Review submitted", map[string]interface{}{
		"review_id":  review.ID,
		"listing_id": review.ListingID,
		"rating":     review.Rating,
	})
	return review, nil
}

// List returns the newest reviews of a listing. A limit outside
// 1..MaxLimit falls back to DefaultLimit or MaxLimit.
func (s *Service) List(ctx context.Context, listingID string, limit int) ([]domain.Review, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, &coreerrors.ValidationError{Field: "listingId", Message: "listing id is required"}
	}
	if s.deps.Reviews == nil {
		return nil, fmt.Errorf("review store not configured")
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	reviews, err := s.deps.Reviews.ListByListing(ctx, listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// Aggregates returns the rating summary for each listing; listings without
// reviews are omitted
func (s *Service) Aggregates(ctx context.Context, listingIDs []string) (map[string]domain.Rating, error) {
	if s.deps.Reviews == nil {
		return map[string]domain.Rating{}, nil
	}
	if len(listingIDs) == 0 {
		return map[string]domain.Rating{}, nil
	}
	return s.deps.Reviews.Aggregates(ctx, listingIDs)
}

// Summary returns the rating summary of one listing
func (s *Service) Summary(ctx context.Context, listingID string) (domain.Rating, error) {
	aggregates, err := s.Aggregates(ctx, []string{listingID})
	if err != nil {
		return domain.Rating{}, err
	}
	return aggregates[listingID], nil
}

func (s *Service) ensureListing(ctx context.Context, id string) error {
	if s.deps.Store == nil {
		return nil
	}
	docs, err := s.deps.Store.Query(ctx, query.Query{
		Type: "listing",
		Filter: query.And(
			query.Or(query.TypeIs(query.TypeSoftware), query.TypeIs(query.TypeService)),
			query.IDIn(id),
		),
		Projection: []query.Field{{Name: "_id", Path: query.MustPath("_id")}},
		Limit:      1,
	})
	if err != nil {
		return &coreerrors.ExternalAPIError{API: "content-store", Message: err.Error()}
	}
	if len(docs) == 0 {
		return &coreerrors.NotFoundError{Resource: "listing", ID: id}
	}
	return nil
}

func (s *Service) logger() interfaces.Logger {
	if s.deps.Logger == nil {
		return interfaces.NopLogger{}
	}
	return s.deps.Logger
}
