// Package api provides the HTTP API layer for the marketplace search service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
//	GET  /api/unified-search        listings search (q, category, type, brokerType)
//	GET  /api/blog-search           article search (q, category, blogType, brokerType, author)
//	GET  /api/search-intents        intent autocomplete (query)
//	POST /api/compare               comparison matrix for selected listing ids
//	POST /api/reviews               submit a review
//	GET  /api/listings/{id}/reviews reviews and rating summary of a listing
//	GET  /healthz                   store and cache health
//	GET  /metrics                   Prometheus metrics
//
// The OpenAPI spec is served at /openapi.json and the interactive docs at /docs.
//
// # Middleware
//
// The API includes middleware for:
// - Request logging with unique request IDs
// - Per-route Prometheus request metrics
// - Rate limiting per IP address
// - CORS handling
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(ctx, api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  120,
//	    RateWindow: time.Minute,
//	})
//
//	handlers.NewSearchHandler(searchService, intentService).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Every failed request answers with the same body:
//
//	{
//	    "success": false,
//	    "error": "type must be software, service or all",
//	    "details": ["validation error on field 'type': type must be software, service or all"]
//	}
//
// Validation errors map to 400, unknown listings to 404, search execution
// failures to 500 and content store outages to 503.
package api
