// Package core contains the business logic for the Marketplace Search API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Listing, Article, Comparison, Review)
// - query: Filter expressions, projections and the query translator
// - search: Search executor, relevance ranker, intents and live search
// - scoring: Marketplace score calculator
// - compare: Comparison selection and feature matrix builder
// - reviews: Review submission and rating aggregates
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (store, cache, logger, metrics)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "marketplace-search-api/core/interfaces"
//	    "marketplace-search-api/core/search"
//	)
//
//	deps := interfaces.Dependencies{
//	    Store:  myStore,  // implements interfaces.ContentStore
//	    Cache:  myCache,  // implements interfaces.Cache
//	    Logger: myLogger, // implements interfaces.Logger
//	}
//
//	searchService := search.NewService(deps)
//
//	results, err := searchService.Search(ctx, search.Request{
//	    Query: "crm",
//	    Types: []string{query.TypeSoftware, query.TypeService},
//	})
package core
