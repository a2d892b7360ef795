// ABOUTME: Search domain models for ranked catalogue and editorial results
// ABOUTME: A result wraps either a listing or an article together with its match data

package domain

// SearchResult is a single ranked match. Exactly one of Listing or Article is set.
type SearchResult struct {
	// Type is the content-store entity type that produced the match
	Type string `json:"type"`

	Listing *Listing `json:"listing,omitempty"`
	Article *Article `json:"article,omitempty"`

	// MatchedFields names the fields that matched at least one term
	MatchedFields []string `json:"matchedFields"`

	// Score is the relevance score; zero for filters-only searches
	Score float64 `json:"score"`

	// TermWeights holds the best field weight per query term, consumed by the ranker
	TermWeights []float64 `json:"-"`

	// PhraseMatch is set when the whole query equals the title
	PhraseMatch bool `json:"-"`
}

// ID returns the id of the wrapped entity
func (r *SearchResult) ID() string {
	switch {
	case r.Listing != nil:
		return r.Listing.ID
	case r.Article != nil:
		return r.Article.ID
	}
	return ""
}

// Title returns the title of the wrapped entity
func (r *SearchResult) Title() string {
	switch {
	case r.Listing != nil:
		return r.Listing.Title
	case r.Article != nil:
		return r.Article.Title
	}
	return ""
}

// Rating returns the wrapped listing's rating; articles are unrated
func (r *SearchResult) Rating() Rating {
	if r.Listing != nil {
		return r.Listing.Rating
	}
	return Rating{}
}
