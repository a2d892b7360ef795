package handlers

import (
	"context"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/reviews"
	"marketplace-search-api/core/search"
)

type mockSearchService struct {
	searchFunc func(ctx context.Context, req search.Request) ([]domain.SearchResult, error)
	requests   []search.Request
}

func (m *mockSearchService) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	m.requests = append(m.requests, req)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return nil, nil
}

type mockIntentService struct {
	suggestFunc func(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error)
}

func (m *mockIntentService) Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error) {
	if m.suggestFunc != nil {
		return m.suggestFunc(ctx, prefix)
	}
	return nil, nil
}

type mockCompareService struct {
	compareFunc func(ctx context.Context, ids []string) (*domain.Comparison, error)
}

func (m *mockCompareService) Compare(ctx context.Context, ids []string) (*domain.Comparison, error) {
	if m.compareFunc != nil {
		return m.compareFunc(ctx, ids)
	}
	return &domain.Comparison{}, nil
}

type mockReviewService struct {
	submitFunc  func(ctx context.Context, sub reviews.Submission) (*domain.Review, error)
	listFunc    func(ctx context.Context, listingID string, limit int) ([]domain.Review, error)
	summaryFunc func(ctx context.Context, listingID string) (domain.Rating, error)
}

func (m *mockReviewService) Submit(ctx context.Context, sub reviews.Submission) (*domain.Review, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &domain.Review{}, nil
}

func (m *mockReviewService) List(ctx context.Context, listingID string, limit int) ([]domain.Review, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, listingID, limit)
	}
	return []domain.Review{}, nil
}

func (m *mockReviewService) Summary(ctx context.Context, listingID string) (domain.Rating, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, listingID)
	}
	return domain.Rating{}, nil
}

type mockChecker struct {
	err error
}

func (m mockChecker) Ping(context.Context) error {
	return m.err
}
