package mappers

import (
	"testing"
	"time"

	"marketplace-search-api/core/domain"
)

func TestToSearchResultResponse(t *testing.T) {
	listing := &domain.Listing{ID: "sw-acme", Kind: domain.KindSoftware, Title: "Acme CRM", Slug: "acme-crm"}
	r := &domain.SearchResult{Type: "software", Listing: listing, MatchedFields: []string{"title"}, Score: 3.5}

	resp := ToSearchResultResponse(r)

	if resp.ID != "sw-acme" || resp.Title != "Acme CRM" || resp.Slug != "acme-crm" {
		t.Errorf("Unexpected identity fields: %+v", resp)
	}
	if resp.Type != "software" || resp.Score != 3.5 {
		t.Errorf("Unexpected type/score: %s %v", resp.Type, resp.Score)
	}
	if resp.Listing != listing || resp.Article != nil {
		t.Error("Expected listing payload only")
	}
}

func TestToSearchResultResponse_Article(t *testing.T) {
	r := &domain.SearchResult{Type: "article", Article: &domain.Article{ID: "a1", Title: "Choosing a CRM", Slug: "choosing-a-crm"}}

	resp := ToSearchResultResponse(r)

	if resp.Slug != "choosing-a-crm" {
		t.Errorf("Slug = %q", resp.Slug)
	}
	if resp.MatchedFields == nil {
		t.Error("MatchedFields should serialize as an empty list")
	}
}

func TestToSearchResultResponse_Empty(t *testing.T) {
	if ToSearchResultResponse(nil) != nil {
		t.Error("Expected nil for nil result")
	}
	if ToSearchResultResponse(&domain.SearchResult{Type: "software"}) != nil {
		t.Error("Expected nil for result without payload")
	}
}

func TestToSearchResponse(t *testing.T) {
	resp := ToSearchResponse(nil)
	if !resp.Success || resp.Count != 0 || resp.Results == nil {
		t.Errorf("Empty search should be a successful empty list, got %+v", resp)
	}

	resp = ToSearchResponse([]domain.SearchResult{
		{Type: "software", Listing: &domain.Listing{ID: "a"}},
		{Type: "software"},
		{Type: "service", Listing: &domain.Listing{ID: "b"}},
	})
	if resp.Count != 2 || resp.Results[0].ID != "a" || resp.Results[1].ID != "b" {
		t.Errorf("Unexpected results: %+v", resp.Results)
	}
}

func TestToIntentsResponse(t *testing.T) {
	resp := ToIntentsResponse([]domain.IntentSuggestion{{Title: "CRM software", Slug: "crm-software"}})
	if len(resp.Items) != 1 || resp.Items[0].Slug != "crm-software" {
		t.Errorf("Unexpected items: %+v", resp.Items)
	}
	if ToIntentsResponse(nil).Items == nil {
		t.Error("Items should serialize as an empty list")
	}
}

func TestToCompareResponse(t *testing.T) {
	resp := ToCompareResponse(nil)
	if resp.Rejected == nil || resp.Listings == nil || resp.Groups == nil {
		t.Errorf("Nil comparison should produce empty lists, got %+v", resp)
	}

	resp = ToCompareResponse(&domain.Comparison{
		Limit:    4,
		Rejected: []string{"x"},
		Listings: []domain.ComparedListing{{Listing: domain.Listing{ID: "a"}, MarketplaceScore: 80}},
	})
	if !resp.Success || resp.Limit != 4 || len(resp.Rejected) != 1 || len(resp.Listings) != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Groups == nil {
		t.Error("Groups should serialize as an empty list")
	}
}

func TestToListReviewsResponse(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := ToListReviewsResponse(
		[]domain.Review{{ID: "r1", ListingID: "sw-acme", Rating: 5, CreatedAt: created}},
		domain.Rating{Average: 4.5, ReviewCount: 2},
	)

	if resp.Count != 1 || resp.Reviews[0].ID != "r1" || !resp.Reviews[0].CreatedAt.Equal(created) {
		t.Errorf("Unexpected reviews: %+v", resp.Reviews)
	}
	if resp.Rating.Average != 4.5 || resp.Rating.ReviewCount != 2 {
		t.Errorf("Unexpected rating: %+v", resp.Rating)
	}
	if ToReviewResponse(nil) != nil {
		t.Error("Expected nil for nil review")
	}
}
