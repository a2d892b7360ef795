// ABOUTME: In-memory content store and review store
// ABOUTME: Evaluates declarative queries directly over decoded documents

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/query"
)

// Store implements ContentStore and ReviewStore in process memory
type Store struct {
	mu      sync.RWMutex
	order   []string
	docs    map[string]query.Document
	reviews map[string][]domain.Review
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		docs:    make(map[string]query.Document),
		reviews: make(map[string][]domain.Review),
	}
}

// Put inserts or replaces documents; replaced documents keep their position
func (s *Store) Put(_ context.Context, docs ...query.Document) error {
	for _, doc := range docs {
		if doc.ID() == "" || doc.Type() == "" {
			return errors.New("document requires _id and _type")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if _, exists := s.docs[doc.ID()]; !exists {
			s.order = append(s.order, doc.ID())
		}
		s.docs[doc.ID()] = clone(doc).(map[string]any)
	}
	return nil
}

// Clear removes every document. Reviews are kept.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.docs = make(map[string]query.Document)
	return nil
}

// Query evaluates the filter over every document in insertion order
func (s *Store) Query(ctx context.Context, q query.Query) ([]query.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolve := func(id string) (query.Document, bool) {
		d, ok := s.docs[id]
		return d, ok
	}

	out := make([]query.Document, 0)
	for _, id := range s.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := s.docs[id]
		if q.Filter != nil && !q.Filter.Eval(doc, resolve) {
			continue
		}
		projected := query.ProjectDocument(doc, q.Projection, resolve)
		out = append(out, clone(map[string]any(projected)).(map[string]any))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Save persists a review
func (s *Store) Save(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if review == nil || review.ID == "" {
		return errors.New("review requires an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews[review.ListingID] {
		if r.ID == review.ID {
			return errors.New("duplicate review id")
		}
	}
	s.reviews[review.ListingID] = append(s.reviews[review.ListingID], *review)
	return nil
}

// ListByListing returns the newest reviews of a listing
func (s *Store) ListByListing(ctx context.Context, listingID string, limit int) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	list := make([]domain.Review, len(s.reviews[listingID]))
	copy(list, s.reviews[listingID])
	s.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Aggregates returns the average rating and count per listing
func (s *Store) Aggregates(ctx context.Context, listingIDs []string) (map[string]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Rating)
	for _, id := range listingIDs {
		list := s.reviews[id]
		if len(list) == 0 {
			continue
		}
		sum := 0
		for _, r := range list {
			sum += r.Rating
		}
		out[id] = domain.Rating{Average: float64(sum) / float64(len(list)), ReviewCount: len(list)}
	}
	return out, nil
}

// Ping reports whether the store can serve requests
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func clone(v any) any {
	switch x := v.(type) {
	case query.Document:
		return clone(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = clone(e)
		}
		return out
	}
	return v
}
