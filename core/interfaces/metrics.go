package interfaces

import "time"

// SearchMetrics records search executor activity
type SearchMetrics interface {
	// ObserveEntityQuery records one content-store query for an entity type
	ObserveEntityQuery(entityType string, duration time.Duration, err error)

	// ObserveSearch records a completed search
	ObserveSearch(results int, partial bool, cached bool)
}
