// ABOUTME: Relevance ranker orders search matches by field-weighted term coverage
// ABOUTME: Ties fall back to rating average, review count and then title

package search

import (
	"sort"
	"strings"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/query"
)

// Field weights per match class. A term scores the best weight it reaches in
// any single field; a document scores the sum over terms.
const (
	WeightExactTitle   = 10.0
	WeightPrefixTitle  = 6.0
	WeightPartialTitle = 4.0
	WeightBody         = 3.0
	WeightSlug         = 2.0
	WeightReference    = 1.0

	// WeightPhrase is added once when the whole query equals the title
	WeightPhrase = 10.0
)

// Rank scores results and orders them by descending score. The sort is
// stable; ties break on rating average, review count, then title.
func Rank(results []domain.SearchResult) []domain.SearchResult {
	for i := range results {
		results[i].Score = score(&results[i])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})
	return results
}

func score(r *domain.SearchResult) float64 {
	total := 0.0
	for _, w := range r.TermWeights {
		total += w
	}
	if r.PhraseMatch {
		total += WeightPhrase
	}
	return total
}

func less(a, b *domain.SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	ra, rb := a.Rating(), b.Rating()
	if ra.Average != rb.Average {
		return ra.Average > rb.Average
	}
	if ra.ReviewCount != rb.ReviewCount {
		return ra.ReviewCount > rb.ReviewCount
	}
	ta, tb := strings.ToLower(a.Title()), strings.ToLower(b.Title())
	if ta != tb {
		return ta < tb
	}
	return a.Title() < b.Title()
}

// fieldWeight is the weight a term earns against one field value
func fieldWeight(class query.MatchClass, value, term string) float64 {
	v := strings.ToLower(value)
	if !strings.Contains(v, term) {
		return 0
	}
	switch class {
	case query.ClassTitle:
		if v == term {
			return WeightExactTitle
		}
		for _, word := range strings.FieldsFunc(v, isWordBreak) {
			if strings.HasPrefix(word, term) {
				return WeightPrefixTitle
			}
		}
		if strings.HasPrefix(v, term) {
			return WeightPrefixTitle
		}
		return WeightPartialTitle
	case query.ClassBody:
		return WeightBody
	case query.ClassSlug:
		return WeightSlug
	}
	return WeightReference
}

func isWordBreak(r rune) bool {
	switch r {
	case ' ', '-', '_', '/', '.', ',', '(', ')', ':':
		return true
	}
	return false
}

// match computes per-term weights and matched field names for a projected
// document
func match(e *query.Entity, doc query.Document, groups []query.TermGroup, phrase string) (weights []float64, fields []string, phraseMatch bool) {
	matched := make(map[string]bool)
	weights = make([]float64, len(groups))
	for i, g := range groups {
		for _, f := range e.TextFields {
			for _, value := range textValues(doc[f.Name]) {
				for _, term := range g {
					w := fieldWeight(f.Class, value, term)
					if w == 0 {
						continue
					}
					matched[f.Name] = true
					if w > weights[i] {
						weights[i] = w
					}
				}
			}
		}
	}
	for _, f := range e.TextFields {
		if matched[f.Name] {
			fields = append(fields, f.Name)
		}
		if phrase != "" && f.Class == query.ClassTitle {
			for _, value := range textValues(doc[f.Name]) {
				if strings.EqualFold(strings.TrimSpace(value), phrase) {
					phraseMatch = true
				}
			}
		}
	}
	if fields == nil {
		fields = []string{}
	}
	return weights, fields, phraseMatch
}

func textValues(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, e := range x {
			out = append(out, textValues(e)...)
		}
		return out
	}
	if s := query.Text(v); s != "" {
		return []string{s}
	}
	return nil
}
