// ABOUTME: Response DTOs for search and autocomplete endpoints
// ABOUTME: Every search endpoint answers with the same success/count/results envelope

package responses

import "marketplace-search-api/core/domain"

// SearchResultResponse is one ranked match. Exactly one of Listing or Article is set.
type SearchResultResponse struct {
	ID            string          `json:"id" doc:"Id of the matched entity"`
	Type          string          `json:"type" doc:"Entity type: software, service or article"`
	Title         string          `json:"title" doc:"Display title"`
	Slug          string          `json:"slug" doc:"URL slug"`
	MatchedFields []string        `json:"matchedFields" doc:"Fields that matched at least one query term"`
	Score         float64         `json:"score" doc:"Relevance score; zero for filters-only searches"`
	Listing       *domain.Listing `json:"listing,omitempty" doc:"Matched listing"`
	Article       *domain.Article `json:"article,omitempty" doc:"Matched article"`
}

// SearchResponse is returned by the unified and blog search endpoints
type SearchResponse struct {
	Success bool                   `json:"success" doc:"Whether the search completed"`
	Count   int                    `json:"count" doc:"Number of results"`
	Results []SearchResultResponse `json:"results" doc:"Results in rank order"`
}

// IntentItem is one autocomplete suggestion
type IntentItem struct {
	Title string `json:"title" doc:"Intent title"`
	Slug  string `json:"slug" doc:"Intent slug"`
}

// IntentsResponse is returned by the search-intents endpoint
type IntentsResponse struct {
	Items []IntentItem `json:"items" doc:"Suggestions ordered by title"`
}
