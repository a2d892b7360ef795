// ABOUTME: Search intents power autocomplete and query expansion
// ABOUTME: Intents are curated phrases with synonyms mapped onto canonical titles

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// MaxSuggestions caps autocomplete results
const MaxSuggestions = 6

// IntentService serves autocomplete and query expansion from SearchIntent documents
type IntentService struct {
	deps interfaces.Dependencies
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	intents  []domain.SearchIntent
	loadedAt time.Time
}

// NewIntentService creates an intent service. Loaded intents are reused for ttl.
func NewIntentService(deps interfaces.Dependencies, ttl time.Duration) *IntentService {
	return &IntentService{
		deps: deps,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Suggest returns up to MaxSuggestions intents whose title starts with
// prefix, ordered by title
func (s *IntentService) Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) > 200 {
		return nil, &coreerrors.ValidationError{Field: "query", Message: "query cannot exceed 200 characters"}
	}
	if s.deps.Store == nil {
		return nil, &coreerrors.SearchExecutionError{Reason: "content store not configured"}
	}

	filter := query.TypeIs(query.TypeSearchIntent)
	if prefix != "" {
		filter = query.And(filter, query.HasPrefix(query.MustPath("title"), prefix))
	}
	docs, err := s.deps.Store.Query(ctx, query.Query{
		Type:       query.TypeSearchIntent,
		Filter:     filter,
		Projection: query.IntentProjection,
	})
	if err != nil {
		return nil, &coreerrors.SearchExecutionError{
			Reason:   "intent lookup failed",
			Failures: map[string]error{query.TypeSearchIntent: err},
		}
	}

	items := make([]domain.IntentSuggestion, 0, len(docs))
	for _, doc := range docs {
		in, err := query.DecodeIntent(doc)
		if err != nil || in.Title == "" {
			continue
		}
		items = append(items, domain.IntentSuggestion{Title: in.Title, Slug: in.Slug})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Title), strings.ToLower(items[j].Title)
		if a != b {
			return a < b
		}
		return items[i].Title < items[j].Title
	})
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	return items, nil
}

// Expand turns query terms into term groups. A query that equals an intent
// synonym or example query keeps its own terms and gains the intent title as
// an alternative for every term; the title is returned as canonical.
// Otherwise single-word synonyms add the intent title as an alternative for
// the matching term.
func (s *IntentService) Expand(ctx context.Context, terms []string) (groups []query.TermGroup, canonical string) {
	groups = query.Groups(terms)
	if len(terms) == 0 {
		return groups, ""
	}

	intents, err := s.load(ctx)
	if err != nil {
		s.logger().Warn("Search intents unavailable, skipping expansion", map[string]interface{}{
			"error": err.Error(),
		})
		return groups, ""
	}

	whole := strings.Join(terms, " ")
	for _, in := range intents {
		candidates := make([]string, 0, len(in.Synonyms)+len(in.ExampleQueries))
		candidates = append(candidates, in.Synonyms...)
		candidates = append(candidates, in.ExampleQueries...)
		for _, c := range candidates {
			if normalize(c) != whole {
				continue
			}
			title := normalize(in.Title)
			if title == "" {
				continue
			}
			for i := range groups {
				if !contains(groups[i], title) {
					groups[i] = append(groups[i], title)
				}
			}
			return groups, title
		}
	}

	for i, term := range terms {
		for _, in := range intents {
			alt := strings.ToLower(strings.TrimSpace(in.Title))
			if alt == "" || contains(groups[i], alt) {
				continue
			}
			for _, syn := range in.Synonyms {
				n := normalize(syn)
				if n == term && !strings.Contains(n, " ") {
					groups[i] = append(groups[i], alt)
					break
				}
			}
		}
	}
	return groups, ""
}

// load returns intents ordered by priority, reusing a recent load
func (s *IntentService) load(ctx context.Context) ([]domain.SearchIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.intents != nil && s.now().Sub(s.loadedAt) < s.ttl {
		return s.intents, nil
	}
	if s.deps.Store == nil {
		return nil, fmt.Errorf("content store not configured")
	}

	docs, err := s.deps.Store.Query(ctx, query.Query{
		Type:       query.TypeSearchIntent,
		Filter:     query.TypeIs(query.TypeSearchIntent),
		Projection: query.IntentProjection,
	})
	if err != nil {
		return nil, fmt.Errorf("load search intents: %w", err)
	}

	intents := make([]domain.SearchIntent, 0, len(docs))
	for _, doc := range docs {
		in, err := query.DecodeIntent(doc)
		if err != nil {
			s.logger().Warn("Skipping malformed search intent", map[string]interface{}{
				"id":    doc.ID(),
				"error": err.Error(),
			})
			continue
		}
		intents = append(intents, in)
	}
	sort.SliceStable(intents, func(i, j int) bool {
		if intents[i].Priority != intents[j].Priority {
			return intents[i].Priority > intents[j].Priority
		}
		return intents[i].Title < intents[j].Title
	})

	s.intents = intents
	s.loadedAt = s.now()
	return intents, nil
}

func (s *IntentService) logger() interfaces.Logger {
	if s.deps.Logger == nil {
		return interfaces.NopLogger{}
	}
	return s.deps.Logger
}

func normalize(phrase string) string {
	return strings.Join(query.Tokenize(phrase), " ")
}

func contains(group query.TermGroup, term string) bool {
	for _, t := range group {
		if t == term {
			return true
		}
	}
	return false
}
