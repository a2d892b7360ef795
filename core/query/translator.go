package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrUnknownEntity is returned for entity types without a search definition
var ErrUnknownEntity = errors.New("unknown entity type")

// UnsupportedFilterError marks an entity type that cannot satisfy a filter
type UnsupportedFilterError struct {
	Type   string
	Filter string
}

func (e *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("entity type %s does not support filter %q", e.Type, e.Filter)
}

// TermGroup is a set of alternatives for one query term; a document matches
// the group when it matches any alternative
type TermGroup []string

// Filters are structured filter values keyed by filter name
type Filters map[string]string

// Active returns the filters that constrain results. Empty values and "all"
// mean no constraint.
func (f Filters) Active() map[string]string {
	out := make(map[string]string, len(f))
	for k, v := range f {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		out[k] = v
	}
	return out
}

// Key renders the active filters in a stable order
func (f Filters) Key() string {
	active := f.Active()
	names := make([]string, 0, len(active))
	for k := range active {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + strings.ToLower(active[k])
	}
	return strings.Join(parts, "&")
}

// Tokenize splits a raw query on whitespace into lower-cased terms with
// surrounding punctuation removed
func Tokenize(raw string) []string {
	words := strings.Fields(raw)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		t := strings.TrimFunc(strings.ToLower(w), func(r rune) bool {
			return unicode.IsPunct(r) && r != '/' && r != '&' && r != '+' && r != '#'
		})
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Groups wraps plain terms as single-alternative groups
func Groups(terms []string) []TermGroup {
	groups := make([]TermGroup, len(terms))
	for i, t := range terms {
		groups[i] = TermGroup{t}
	}
	return groups
}

// TextClause builds the free-text clause for an entity: every group must
// match, each group against any text field
func TextClause(e *Entity, groups []TermGroup) Expr {
	if len(groups) == 0 {
		return nil
	}
	clauses := make([]Expr, 0, len(groups))
	for _, g := range groups {
		alternatives := make([]Expr, 0, len(g)*len(e.TextFields))
		for _, term := range g {
			for _, f := range e.TextFields {
				alternatives = append(alternatives, Contains(f.Path, term))
			}
		}
		clauses = append(clauses, Or(alternatives...))
	}
	return And(clauses...)
}

// Build translates one entity type's share of a search into a query
func Build(e *Entity, groups []TermGroup, filters Filters, limit int) (Query, error) {
	exprs := []Expr{TypeIs(e.Type)}

	active := filters.Active()
	names := make([]string, 0, len(active))
	for k := range active {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		paths, ok := e.Filters[name]
		if !ok {
			return Query{}, &UnsupportedFilterError{Type: e.Type, Filter: name}
		}
		alternatives := make([]Expr, len(paths))
		for i, p := range paths {
			alternatives[i] = Eq(p, active[name])
		}
		exprs = append(exprs, Or(alternatives...))
	}

	exprs = append(exprs, TextClause(e, groups))

	return Query{
		Type:       e.Type,
		Filter:     And(exprs...),
		Projection: e.Projection,
		Limit:      limit,
	}, nil
}

// Translate builds one query per requested entity type. Types that cannot
// be searched with the given filters are returned in skipped with the reason.
func Translate(types []string, groups []TermGroup, filters Filters, limit int) ([]Query, map[string]error) {
	queries := make([]Query, 0, len(types))
	skipped := make(map[string]error)
	for _, t := range types {
		e, ok := LookupEntity(t)
		if !ok {
			skipped[t] = fmt.Errorf("%w: %s", ErrUnknownEntity, t)
			continue
		}
		q, err := Build(e, groups, filters, limit)
		if err != nil {
			skipped[t] = err
			continue
		}
		queries = append(queries, q)
	}
	return queries, skipped
}
