// ABOUTME: Prometheus collectors for search activity and HTTP traffic
// ABOUTME: Implements the SearchMetrics interface consumed by the search executor

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricEntityQueries        = "search_entity_queries_total"
	MetricEntityQueryDuration  = "search_entity_query_duration_seconds"
	MetricSearches             = "searches_total"
	MetricSearchResults        = "search_results"
	MetricHTTPRequestsTotal    = "http_requests_total"
	MetricHTTPRequestDuration  = "http_request_duration_seconds"
	MetricHTTPResponseSizeByte = "http_response_size_bytes"
)

// Label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains the Prometheus collectors. All operations are thread-safe.
type Metrics struct {
	entityQueries       *prometheus.CounterVec
	entityQueryDuration *prometheus.HistogramVec
	searches            *prometheus.CounterVec
	searchResults       prometheus.Histogram
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec
}

// NewMetrics creates the collectors without registering them
func NewMetrics() *Metrics {
	return &Metrics{
		entityQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEntityQueries,
				Help: "Content store queries by entity type and outcome",
			},
			[]string{"entity_type", "status"},
		),
		entityQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricEntityQueryDuration,
				Help:    "Content store query duration in seconds by entity type",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"entity_type"},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearches,
				Help: "Completed searches by partial-failure and cache outcome",
			},
			[]string{"partial", "cached"},
		),
		searchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Number of ranked results returned per search",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "path", "status"},
		),
		httpResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPResponseSizeByte,
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Register registers all collectors with the registry
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.entityQueries,
		m.entityQueryDuration,
		m.searches,
		m.searchResults,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpResponseSize,
	}
}

// ObserveEntityQuery records one content store query
func (m *Metrics) ObserveEntityQuery(entityType string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.entityQueries.WithLabelValues(entityType, status).Inc()
	m.entityQueryDuration.WithLabelValues(entityType).Observe(duration.Seconds())
}

// ObserveSearch records a completed search
func (m *Metrics) ObserveSearch(results int, partial bool, cached bool) {
	m.searches.WithLabelValues(strconv.FormatBool(partial), strconv.FormatBool(cached)).Inc()
	m.searchResults.Observe(float64(results))
}

// ObserveHTTPRequest records one served request. path must be a route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration, responseSize int64) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequestsTotal.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
	m.httpResponseSize.With(labels).Observe(float64(responseSize))
}
