// ABOUTME: Health check handler reporting store reachability

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// HealthChecker reports whether a backing service is usable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler creates a health handler over the named checks
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body struct {
		Status string            `json:"status" doc:"ok or degraded"`
		Checks map[string]string `json:"checks" doc:"Result per backing service"`
	}
}

// Health handles the GET /healthz endpoint. Failing checks report
// "degraded" with a 200 status.
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Checks = make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			out.Body.Checks[name] = err.Error()
			out.Body.Status = "degraded"
			continue
		}
		out.Body.Checks[name] = "ok"
	}

	return out, nil
}
