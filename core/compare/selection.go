// ABOUTME: Comparison selection tracks which listings are picked for side-by-side comparison
// ABOUTME: Enforces the capacity limit and keeps selections unique and ordered

package compare

import (
	"sync"

	"marketplace-search-api/core/domain"
)

// MaxSelection is the most listings that can be compared at once
const MaxSelection = 4

// Selection is an ordered, capacity-bounded set of listings. It is
// session scoped and never persisted.
type Selection struct {
	mu    sync.Mutex
	limit int
	items []domain.Listing
}

// NewSelection creates an empty selection holding at most MaxSelection listings
func NewSelection() *Selection {
	return &Selection{limit: MaxSelection}
}

// Add appends a listing. It returns true when the listing is selected
// afterwards, including when it already was, and false without any change
// when the selection is full.
func (s *Selection) Add(l domain.Listing) bool {
	if l.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(l.ID) >= 0 {
		return true
	}
	if len(s.items) >= s.limit {
		return false
	}
	s.items = append(s.items, l)
	return true
}

// Remove drops a listing; removing an unselected id is a no-op
func (s *Selection) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// IsSelected reports whether a listing is selected
func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// CanAddMore reports whether another listing fits
func (s *Selection) CanAddMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) < s.limit
}

// Len returns the number of selected listings
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Limit returns the capacity
func (s *Selection) Limit() int {
	return s.limit
}

// IDs returns the selected ids in selection order
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.items))
	for i, l := range s.items {
		ids[i] = l.ID
	}
	return ids
}

// Snapshot returns a copy of the selected listings in selection order.
// Later changes to the selection do not affect it.
func (s *Selection) Snapshot() []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Listing, len(s.items))
	for i, l := range s.items {
		l.Features = append([]domain.FeatureDeclaration(nil), l.Features...)
		out[i] = l
	}
	return out
}

func (s *Selection) indexOf(id string) int {
	for i, l := range s.items {
		if l.ID == id {
			return i
		}
	}
	return -1
}
