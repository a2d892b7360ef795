// ABOUTME: HTTP client for a running marketplace search API
// ABOUTME: Implements search.Searcher so live search sessions can run against a remote server

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
	"marketplace-search-api/core/search"
	"marketplace-search-api/infrastructure/http/standard"
)

const apiName = "marketplace-search"

// Client calls the search, intent and compare endpoints
type Client struct {
	baseURL string
	http    interfaces.HTTPClient
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default retrying HTTP client
func WithHTTPClient(h interfaces.HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    standard.NewStandardHTTPClient(10*time.Second, standard.WithMaxRetries(2)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type resultPayload struct {
	Type          string          `json:"type"`
	MatchedFields []string        `json:"matchedFields"`
	Score         float64         `json:"score"`
	Listing       *domain.Listing `json:"listing"`
	Article       *domain.Article `json:"article"`
}

type searchPayload struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Results []resultPayload `json:"results"`
}

type errorPayload struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// Search runs req against the unified search endpoint, or the blog search
// endpoint when req asks only for articles.
func (c *Client) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	params := url.Values{}
	if req.Query != "" {
		params.Set("q", req.Query)
	}
	for name, value := range req.Filters.Active() {
		params.Set(name, value)
	}

	path := "/api/unified-search"
	if len(req.Types) == 1 && req.Types[0] == query.TypeArticle {
		path = "/api/blog-search"
	} else if len(req.Types) == 1 {
		params.Set("type", req.Types[0])
	}

	var payload searchPayload
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, domain.SearchResult{
			Type:          r.Type,
			Listing:       r.Listing,
			Article:       r.Article,
			MatchedFields: r.MatchedFields,
			Score:         r.Score,
		})
	}
	return results, nil
}

// Suggest returns autocomplete suggestions for prefix
func (c *Client) Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error) {
	var payload struct {
		Items []domain.IntentSuggestion `json:"items"`
	}
	if err := c.get(ctx, "/api/search-intents", url.Values{"query": {prefix}}, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		payload.Items = []domain.IntentSuggestion{}
	}
	return payload.Items, nil
}

// Compare requests the comparison of ids
func (c *Client) Compare(ctx context.Context, ids []string) (*domain.Comparison, error) {
	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/api/compare", bytes.NewReader(body))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body().Close()

	var comparison domain.Comparison
	if err := decode(resp, &comparison); err != nil {
		return nil, err
	}
	return &comparison, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	resp, err := c.http.Get(ctx, target)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body().Close()

	return decode(resp, v)
}

func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &coreerrors.ExternalAPIError{API: apiName, Message: err.Error()}
}

// decode reads a success body into v, or converts an error body into an
// ExternalAPIError carrying the server status.
func decode(resp interfaces.Response, v any) error {
	data, err := io.ReadAll(resp.Body())
	if err != nil {
		return &coreerrors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: err.Error()}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		var e errorPayload
		msg := http.StatusText(resp.StatusCode())
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
			if len(e.Details) > 0 {
				msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, "; "))
			}
		}
		return &coreerrors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: msg}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &coreerrors.ExternalAPIError{
			API:        apiName,
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("invalid response body: %v", err),
		}
	}
	return nil
}
