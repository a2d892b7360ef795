// ABOUTME: Search service executes multi-entity catalogue and editorial searches
// ABOUTME: Provides business logic for search operations independent of HTTP layer

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"marketplace-search-api/core/config"
	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// Request is one search: free text, the entity types to search and
// structured filters
type Request struct {
	Query   string
	Types   []string
	Filters query.Filters
}

// Service runs searches against the content store
type Service struct {
	deps    interfaces.Dependencies
	cfg     config.SearchConfig
	intents *IntentService
}

// NewService creates a new search service instance
func NewService(deps interfaces.Dependencies, opts ...config.SearchOption) *Service {
	return &Service{
		deps: deps,
		cfg:  config.NewSearchConfig(opts...),
	}
}

// SetIntentService enables intent-based query expansion
func (s *Service) SetIntentService(intents *IntentService) {
	s.intents = intents
}

// validateRequest validates search request parameters
func (s *Service) validateRequest(req Request) error {
	if utf8.RuneCountInString(req.Query) > s.cfg.MaxQueryLength {
		return &coreerrors.ValidationError{
			Field:   "q",
			Message: fmt.Sprintf("search query cannot exceed %d characters", s.cfg.MaxQueryLength),
		}
	}
	if len(req.Types) == 0 {
		return &coreerrors.ValidationError{Field: "types", Message: "at least one entity type is required"}
	}
	return nil
}

// Search runs one query per requested entity type, merges the matches by id
// and returns them ranked, keeping the best PerTypeLimit of each type. A failing entity type contributes no results; if
// every attempted type fails a SearchExecutionError is returned.
func (s *Service) Search(ctx context.Context, req Request) ([]domain.SearchResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if s.deps.Store == nil {
		return nil, &coreerrors.SearchExecutionError{Reason: "content store not configured"}
	}

	terms := query.Tokenize(req.Query)
	if len(terms) > s.cfg.MaxTerms {
		s.logger().Debug("Ignoring extra query terms", map[string]interface{}{
			"terms":   len(terms),
			"ignored": terms[s.cfg.MaxTerms:],
		})
		terms = terms[:s.cfg.MaxTerms]
	}

	groups := query.Groups(terms)
	phrase := ""
	if len(terms) > 1 {
		phrase = strings.Join(terms, " ")
	}
	if s.intents != nil && len(terms) > 0 {
		var canonical string
		groups, canonical = s.intents.Expand(ctx, terms)
		if canonical != "" {
			phrase = canonical
		}
	}

	cacheKey := s.cacheKey(req.Types, req.Filters, groups)
	if cached, ok := s.getCached(ctx, cacheKey); ok {
		s.observeSearch(len(cached), false, true)
		return cached, nil
	}

	queries, skipped := query.Translate(req.Types, groups, req.Filters, s.cfg.FetchCap)
	for t, reason := range skipped {
		s.logger().Debug("Entity type skipped", map[string]interface{}{
			"type":   t,
			"reason": reason.Error(),
		})
	}

	results := make([]domain.SearchResult, 0)
	index := make(map[string]int)
	failures := make(map[string]error)

	// Entity types are queried one after another
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		docs, err := s.deps.Store.Query(ctx, q)
		if s.deps.Metrics != nil {
			s.deps.Metrics.ObserveEntityQuery(q.Type, time.Since(start), err)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger().Error("Entity type query failed", map[string]interface{}{
				"type":  q.Type,
				"query": q.String(),
				"error": err.Error(),
			})
			failures[q.Type] = err
			continue
		}
		if s.cfg.FetchCap > 0 && len(docs) >= s.cfg.FetchCap {
			s.logger().Warn("Entity type matches reached fetch cap, ranking a partial set", map[string]interface{}{
				"type":      q.Type,
				"fetch_cap": s.cfg.FetchCap,
			})
		}

		entity, _ := query.LookupEntity(q.Type)
		for _, doc := range docs {
			r, err := toResult(entity, doc, groups, phrase)
			if err != nil {
				s.logger().Warn("Skipping undecodable document", map[string]interface{}{
					"type":  q.Type,
					"id":    doc.ID(),
					"error": err.Error(),
				})
				continue
			}
			merge(&results, index, r)
		}
	}

	if len(queries) > 0 && len(failures) == len(queries) {
		return nil, &coreerrors.SearchExecutionError{
			Reason:   "all entity type queries failed",
			Failures: failures,
		}
	}

	results = truncatePerType(Rank(results), s.cfg.PerTypeLimit)
	partial := len(failures) > 0
	s.observeSearch(len(results), partial, false)

	if !partial {
		s.setCached(ctx, cacheKey, results)
	}

	return results, nil
}

func toResult(e *query.Entity, doc query.Document, groups []query.TermGroup, phrase string) (domain.SearchResult, error) {
	r := domain.SearchResult{Type: e.Type}
	switch e.Type {
	case query.TypeArticle:
		a, err := query.DecodeArticle(doc)
		if err != nil {
			return r, err
		}
		r.Article = &a
	default:
		l, err := query.DecodeListing(doc)
		if err != nil {
			return r, err
		}
		r.Listing = &l
	}
	r.TermWeights, r.MatchedFields, r.PhraseMatch = match(e, doc, groups, phrase)
	return r, nil
}

// truncatePerType keeps the first limit ranked results of each entity type
func truncatePerType(ranked []domain.SearchResult, limit int) []domain.SearchResult {
	if limit <= 0 {
		return ranked
	}
	kept := ranked[:0]
	counts := make(map[string]int)
	for _, r := range ranked {
		if counts[r.Type] >= limit {
			continue
		}
		counts[r.Type]++
		kept = append(kept, r)
	}
	return kept
}

// merge adds r to results, folding it into an earlier result with the same id
func merge(results *[]domain.SearchResult, index map[string]int, r domain.SearchResult) {
	id := r.ID()
	i, ok := index[id]
	if !ok {
		index[id] = len(*results)
		*results = append(*results, r)
		return
	}

	existing := &(*results)[i]
	for _, f := range r.MatchedFields {
		if !containsString(existing.MatchedFields, f) {
			existing.MatchedFields = append(existing.MatchedFields, f)
		}
	}
	for j := range existing.TermWeights {
		if j < len(r.TermWeights) && r.TermWeights[j] > existing.TermWeights[j] {
			existing.TermWeights[j] = r.TermWeights[j]
		}
	}
	existing.PhraseMatch = existing.PhraseMatch || r.PhraseMatch
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// cacheKey renders search:<types>:<filters>:<terms>
func (s *Service) cacheKey(types []string, filters query.Filters, groups []query.TermGroup) string {
	sortedTypes := append([]string(nil), types...)
	sort.Strings(sortedTypes)

	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = strings.Join(g, "|")
	}
	return fmt.Sprintf("search:%s:%s:%s", strings.Join(sortedTypes, ","), filters.Key(), strings.Join(parts, "+"))
}

func (s *Service) getCached(ctx context.Context, key string) ([]domain.SearchResult, bool) {
	if s.deps.Cache == nil || s.cfg.CacheTTL <= 0 {
		return nil, false
	}
	data, err := s.deps.Cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	var results []domain.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		s.logger().Warn("Discarding unreadable cached search", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return results, true
}

func (s *Service) setCached(ctx context.Context, key string, results []domain.SearchResult) {
	if s.deps.Cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger().Warn("Failed to cache search results", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *Service) observeSearch(results int, partial, cached bool) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveSearch(results, partial, cached)
	}
}

func (s *Service) logger() interfaces.Logger {
	if s.deps.Logger == nil {
		return interfaces.NopLogger{}
	}
	return s.deps.Logger
}
