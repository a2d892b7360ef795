// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"marketplace-search-api/api/dto/responses"
	"marketplace-search-api/core/domain"
)

// ToSearchResultResponse converts a domain SearchResult to its DTO
func ToSearchResultResponse(r *domain.SearchResult) *responses.SearchResultResponse {
	if r == nil || (r.Listing == nil && r.Article == nil) {
		return nil
	}

	resp := &responses.SearchResultResponse{
		ID:            r.ID(),
		Type:          r.Type,
		Title:         r.Title(),
		MatchedFields: r.MatchedFields,
		Score:         r.Score,
		Listing:       r.Listing,
		Article:       r.Article,
	}
	if resp.MatchedFields == nil {
		resp.MatchedFields = []string{}
	}

	switch {
	case r.Listing != nil:
		resp.Slug = r.Listing.Slug
	case r.Article != nil:
		resp.Slug = r.Article.Slug
	}

	return resp
}

// ToSearchResponse wraps ranked results in the search envelope. Zero results
// is a successful, empty response.
func ToSearchResponse(results []domain.SearchResult) responses.SearchResponse {
	items := make([]responses.SearchResultResponse, 0, len(results))
	for i := range results {
		if item := ToSearchResultResponse(&results[i]); item != nil {
			items = append(items, *item)
		}
	}

	return responses.SearchResponse{
		Success: true,
		Count:   len(items),
		Results: items,
	}
}

// ToIntentsResponse converts autocomplete suggestions
func ToIntentsResponse(suggestions []domain.IntentSuggestion) responses.IntentsResponse {
	items := make([]responses.IntentItem, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, responses.IntentItem{Title: s.Title, Slug: s.Slug})
	}
	return responses.IntentsResponse{Items: items}
}
