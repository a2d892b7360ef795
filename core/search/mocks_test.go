package search

import (
	"context"
	"sync"
	"time"

	"marketplace-search-api/core/query"
)

// mockStore is a mock implementation of the ContentStore interface
type mockStore struct {
	queryFunc func(ctx context.Context, q query.Query) ([]query.Document, error)

	mu      sync.Mutex
	queries []query.Query
}

func (m *mockStore) Query(ctx context.Context, q query.Query) ([]query.Document, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.queryFunc != nil {
		return m.queryFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// evalStore answers queries by evaluating them over an in-memory document set
func evalStore(docs ...query.Document) *mockStore {
	byID := make(map[string]query.Document, len(docs))
	for _, d := range docs {
		byID[d.ID()] = d
	}
	resolve := func(id string) (query.Document, bool) {
		d, ok := byID[id]
		return d, ok
	}
	return &mockStore{
		queryFunc: func(ctx context.Context, q query.Query) ([]query.Document, error) {
			var out []query.Document
			for _, d := range docs {
				if q.Filter != nil && !q.Filter.Eval(d, resolve) {
					continue
				}
				out = append(out, query.ProjectDocument(d, q.Projection, resolve))
				if q.Limit > 0 && len(out) == q.Limit {
					break
				}
			}
			return out, nil
		},
	}
}

// mockCache is a mock implementation of the Cache interface
type mockCache struct {
	getFunc    func(ctx context.Context, key string) ([]byte, error)
	setFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFunc func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return nil
}

// mockLogger records logged messages
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, _ map[string]interface{}) { m.log(msg) }
func (m *mockLogger) Info(msg string, _ map[string]interface{})  { m.log(msg) }
func (m *mockLogger) Warn(msg string, _ map[string]interface{})  { m.log(msg) }
func (m *mockLogger) Error(msg string, _ map[string]interface{}) { m.log(msg) }

func (m *mockLogger) has(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.messages {
		if s == msg {
			return true
		}
	}
	return false
}

// mockMetrics counts observations
type mockMetrics struct {
	mu       sync.Mutex
	entities map[string]int
	failed   map[string]int
	searches int
	partial  int
	cached   int
}

func (m *mockMetrics) ObserveEntityQuery(entityType string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entities == nil {
		m.entities = map[string]int{}
		m.failed = map[string]int{}
	}
	m.entities[entityType]++
	if err != nil {
		m.failed[entityType]++
	}
}

func (m *mockMetrics) ObserveSearch(_ int, partial bool, cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	if partial {
		m.partial++
	}
	if cached {
		m.cached++
	}
}

func ref(id string) map[string]any {
	return map[string]any{"_ref": id}
}

// catalogue is a small mixed catalogue shared by the search tests
func catalogue() []query.Document {
	return []query.Document{
		{"_id": "cat-crm", "_type": "category", "key": "crm", "title": "CRM"},
		{"_id": "cat-hr", "_type": "category", "key": "hr", "title": "HR"},
		{"_id": "feat-pipeline", "_type": "feature", "title": "Pipeline management", "synonyms": []any{"deal tracking"}},
		{"_id": "feat-sso", "_type": "feature", "title": "SSO / MFA", "synonyms": []any{"single sign-on"}},
		{"_id": "bt-managed", "_type": "brokerType", "key": "managed", "title": "Managed IT"},
		{
			"_id": "sw-acme", "_type": "software", "title": "Acme CRM", "slug": "acme-crm",
			"tagline": "Sell faster", "description": "Contact management for small teams",
			"category": ref("cat-crm"),
			"features": []any{
				map[string]any{"feature": ref("feat-pipeline"), "availability": "yes"},
			},
			"rating": map[string]any{"average": 4.2, "reviewCount": 30.0},
		},
		{
			"_id": "sw-ledger", "_type": "software", "title": "Ledgerly", "slug": "ledgerly",
			"tagline": "Accounting", "description": "Books that sync with your crm",
			"category": ref("cat-hr"),
			"rating":   map[string]any{"average": 4.9, "reviewCount": 200.0},
		},
		{
			"_id": "sw-pipe", "_type": "software", "title": "Pipeliner", "slug": "pipeliner",
			"description": "Visual sales",
			"category":    ref("cat-crm"),
			"features": []any{
				map[string]any{"feature": ref("feat-pipeline"), "availability": "partial", "limitation": "5 boards"},
			},
			"rating": map[string]any{"average": 4.5, "reviewCount": 12.0},
		},
		{
			"_id": "svc-setup", "_type": "service", "name": "CRM Setup Partners", "slug": "crm-setup",
			"description": "We migrate your data",
			"category":    ref("cat-crm"),
			"brokerType":  ref("bt-managed"),
			"rating":      map[string]any{"average": 4.5, "reviewCount": 40.0},
		},
		{"_id": "post-1", "_type": "article", "title": "Choosing a CRM", "slug": "choosing-a-crm", "excerpt": "A buyer guide", "category": ref("cat-crm")},
		{"_id": "intent-crm", "_type": "searchIntent", "title": "CRM", "slug": "crm", "synonyms": []any{"customer relationship management", "salesforce"}, "exampleQueries": []any{"best crm for startups"}, "priority": 10.0},
		{"_id": "intent-hr", "_type": "searchIntent", "title": "HR software", "slug": "hr-software", "synonyms": []any{"payroll"}, "priority": 5.0},
		{"_id": "intent-help", "_type": "searchIntent", "title": "Helpdesk", "slug": "helpdesk", "priority": 1.0},
	}
}
