package compare

import (
	"context"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/query"
)

// mockStore evaluates queries over an in-memory document set
type mockStore struct {
	docs    []query.Document
	failOn  string
	queries []query.Query
}

func (m *mockStore) Query(ctx context.Context, q query.Query) ([]query.Document, error) {
	m.queries = append(m.queries, q)
	if m.failOn != "" && q.Type == m.failOn {
		return nil, context.DeadlineExceeded
	}
	byID := make(map[string]query.Document, len(m.docs))
	for _, d := range m.docs {
		byID[d.ID()] = d
	}
	resolve := func(id string) (query.Document, bool) {
		d, ok := byID[id]
		return d, ok
	}
	var out []query.Document
	for _, d := range m.docs {
		if q.Filter.Eval(d, resolve) {
			out = append(out, query.ProjectDocument(d, q.Projection, resolve))
		}
	}
	return out, nil
}

// mockReviewStore is a mock implementation of the ReviewStore interface
type mockReviewStore struct {
	aggregatesFunc func(ctx context.Context, ids []string) (map[string]domain.Rating, error)
}

func (m *mockReviewStore) Save(ctx context.Context, review *domain.Review) error {
	return nil
}

func (m *mockReviewStore) ListByListing(ctx context.Context, listingID string, limit int) ([]domain.Review, error) {
	return nil, nil
}

func (m *mockReviewStore) Aggregates(ctx context.Context, ids []string) (map[string]domain.Rating, error) {
	if m.aggregatesFunc != nil {
		return m.aggregatesFunc(ctx, ids)
	}
	return map[string]domain.Rating{}, nil
}

func ref(id string) map[string]any {
	return map[string]any{"_ref": id}
}

func compareCatalogue() []query.Document {
	decl := func(feature, availability string) map[string]any {
		return map[string]any{"feature": ref(feature), "availability": availability}
	}
	return []query.Document{
		{"_id": "fc-sec", "_type": "featureCategory", "title": "Security", "order": 1.0},
		{"_id": "fc-sales", "_type": "featureCategory", "title": "Sales", "order": 2.0},
		{"_id": "f-sso", "_type": "feature", "title": "SSO / MFA", "category": ref("fc-sec")},
		{"_id": "f-pipe", "_type": "feature", "title": "Pipeline", "category": ref("fc-sales"), "kinds": []any{"software"}},
		{"_id": "f-onsite", "_type": "feature", "title": "On-site support", "kinds": []any{"service"}},
		{"_id": "sw1", "_type": "software", "title": "Acme", "features": []any{decl("f-pipe", "yes")}, "rating": map[string]any{"average": 4.0, "reviewCount": 10.0}},
		{"_id": "sw2", "_type": "software", "title": "Bolt", "features": []any{decl("f-pipe", "partial")}},
		{"_id": "sw3", "_type": "software", "title": "Crux"},
		{"_id": "svc1", "_type": "service", "name": "Delta Partners", "features": []any{decl("f-sso", "yes")}, "trustMetrics": map[string]any{"verifiedRatio": 0.5}},
		{"_id": "svc2", "_type": "service", "name": "Echo IT"},
	}
}
