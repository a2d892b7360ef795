// ABOUTME: Search handlers for the Huma API
// ABOUTME: Provides the unified catalogue search, blog search and intent autocomplete endpoints

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"marketplace-search-api/api/dto/mappers"
	"marketplace-search-api/api/dto/responses"
	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/query"
	"marketplace-search-api/core/search"
)

// SearchService interface defines the methods needed from the search service
type SearchService interface {
	Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error)
}

// IntentService interface defines the methods needed for autocomplete
type IntentService interface {
	Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error)
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService SearchService
	intentService IntentService
}

// NewSearchHandler creates a new search handler. intentService may be nil,
// in which case autocomplete returns no items.
func NewSearchHandler(searchService SearchService, intentService IntentService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		intentService: intentService,
	}
}

// RegisterRoutes registers all search-related routes
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "unifiedSearch",
		Method:      http.MethodGet,
		Path:        "/api/unified-search",
		Summary:     "Search software and service listings",
		Description: "Searches every listing type across titles, descriptions, features and references, returning merged results in rank order",
		Tags:        []string{"Search"},
	}, h.UnifiedSearch)

	huma.Register(api, huma.Operation{
		OperationID: "blogSearch",
		Method:      http.MethodGet,
		Path:        "/api/blog-search",
		Summary:     "Search editorial articles",
		Description: "Searches articles with optional category, blog type, broker type and author filters",
		Tags:        []string{"Search"},
	}, h.BlogSearch)

	huma.Register(api, huma.Operation{
		OperationID: "searchIntents",
		Method:      http.MethodGet,
		Path:        "/api/search-intents",
		Summary:     "Autocomplete search intents",
		Description: "Returns up to six search intents whose title starts with the query, ordered by title",
		Tags:        []string{"Search"},
	}, h.SearchIntents)
}

// UnifiedSearchInput defines the input for the UnifiedSearch operation.
// Empty or "all" filter values do not constrain results.
type UnifiedSearchInput struct {
	Q          string `query:"q" doc:"Free text query; may be empty for a filters-only search"`
	Category   string `query:"category" doc:"Category key or title, or all"`
	Type       string `query:"type" doc:"Listing type: software, service or all"`
	BrokerType string `query:"brokerType" doc:"Broker type key or title, or all"`
}

// SearchOutput defines the output shared by the search operations
type SearchOutput struct {
	Body responses.SearchResponse
}

// UnifiedSearch handles the GET /api/unified-search endpoint
func (h *SearchHandler) UnifiedSearch(ctx context.Context, input *UnifiedSearchInput) (*SearchOutput, error) {
	types, err := listingTypes(input.Type)
	if err != nil {
		return nil, toHumaError(err)
	}

	results, err := h.searchService.Search(ctx, search.Request{
		Query: input.Q,
		Types: types,
		Filters: query.Filters{
			"category":   input.Category,
			"brokerType": input.BrokerType,
		},
	})
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: mappers.ToSearchResponse(results)}, nil
}

// BlogSearchInput defines the input for the BlogSearch operation
type BlogSearchInput struct {
	Q          string `query:"q" doc:"Free text query; may be empty for a filters-only search"`
	Category   string `query:"category" doc:"Category key or title, or all"`
	BlogType   string `query:"blogType" doc:"Blog type key or title, or all"`
	BrokerType string `query:"brokerType" doc:"Broker type key or title, or all"`
	Author     string `query:"author" doc:"Author slug or name, or all"`
}

// BlogSearch handles the GET /api/blog-search endpoint
func (h *SearchHandler) BlogSearch(ctx context.Context, input *BlogSearchInput) (*SearchOutput, error) {
	results, err := h.searchService.Search(ctx, search.Request{
		Query: input.Q,
		Types: []string{query.TypeArticle},
		Filters: query.Filters{
			"category":   input.Category,
			"blogType":   input.BlogType,
			"brokerType": input.BrokerType,
			"author":     input.Author,
		},
	})
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{Body: mappers.ToSearchResponse(results)}, nil
}

// SearchIntentsInput defines the input for the SearchIntents operation
type SearchIntentsInput struct {
	Query string `query:"query" doc:"Title prefix to complete"`
}

// SearchIntentsOutput defines the output for the SearchIntents operation
type SearchIntentsOutput struct {
	Body responses.IntentsResponse
}

// SearchIntents handles the GET /api/search-intents endpoint
func (h *SearchHandler) SearchIntents(ctx context.Context, input *SearchIntentsInput) (*SearchIntentsOutput, error) {
	if h.intentService == nil {
		return &SearchIntentsOutput{Body: mappers.ToIntentsResponse(nil)}, nil
	}

	suggestions, err := h.intentService.Suggest(ctx, input.Query)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchIntentsOutput{Body: mappers.ToIntentsResponse(suggestions)}, nil
}

// listingTypes maps the type parameter to the entity types to search
func listingTypes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return []string{query.TypeSoftware, query.TypeService}, nil
	}
	kind, ok := domain.ParseKind(strings.ToLower(raw))
	if !ok {
		return nil, &coreerrors.ValidationError{Field: "type", Message: "type must be software, service or all"}
	}
	return []string{string(kind)}, nil
}
