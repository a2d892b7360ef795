// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Store is the document content store
	Store ContentStore

	// Reviews persists user ratings; optional
	Reviews ReviewStore

	// Cache provides caching functionality; optional
	Cache Cache

	// Logger provides structured logging
	Logger Logger

	// Metrics records search activity; optional
	Metrics SearchMetrics
}
