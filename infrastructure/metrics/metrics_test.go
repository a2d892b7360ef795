package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"marketplace-search-api/core/interfaces"
)

var _ interfaces.SearchMetrics = (*Metrics)(nil)

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}

	m.ObserveEntityQuery("software", 10*time.Millisecond, nil)
	m.ObserveSearch(3, false, false)
	m.ObserveHTTPRequest("GET", "/api/unified-search", 200, 20*time.Millisecond, 512)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}

	expected := map[string]bool{
		MetricEntityQueries:        false,
		MetricEntityQueryDuration:  false,
		MetricSearches:             false,
		MetricSearchResults:        false,
		MetricHTTPRequestsTotal:    false,
		MetricHTTPRequestDuration:  false,
		MetricHTTPResponseSizeByte: false,
	}
	for _, family := range families {
		if _, ok := expected[family.GetName()]; ok {
			expected[family.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %s not found in gathered metrics", name)
		}
	}

	// Registering twice must fail
	if err := m.Register(reg); err == nil {
		t.Error("Expected duplicate registration error")
	}
}

func TestMetrics_ObserveEntityQuery(t *testing.T) {
	m := NewMetrics()

	m.ObserveEntityQuery("software", time.Millisecond, nil)
	m.ObserveEntityQuery("software", time.Millisecond, nil)
	m.ObserveEntityQuery("service", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.entityQueries.WithLabelValues("software", StatusSuccess)); got != 2 {
		t.Errorf("software success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.entityQueries.WithLabelValues("service", StatusFailure)); got != 1 {
		t.Errorf("service failure = %v, want 1", got)
	}
}

func TestMetrics_ObserveSearch(t *testing.T) {
	m := NewMetrics()

	m.ObserveSearch(4, true, false)
	m.ObserveSearch(0, false, true)
	m.ObserveSearch(2, false, true)

	if got := testutil.ToFloat64(m.searches.WithLabelValues("true", "false")); got != 1 {
		t.Errorf("partial searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.searches.WithLabelValues("false", "true")); got != 2 {
		t.Errorf("cached searches = %v, want 2", got)
	}
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest("POST", "/api/compare", 400, time.Millisecond, 64)

	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/compare", "400")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.ObserveEntityQuery("article", time.Millisecond, nil)
			m.ObserveSearch(1, false, false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(m.entityQueries.WithLabelValues("article", StatusSuccess)); got != 50 {
		t.Errorf("article queries = %v, want 50", got)
	}
}
