// ABOUTME: Comparison handler for the Huma API
// ABOUTME: Builds the side-by-side feature matrix for a selection of listings

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"marketplace-search-api/api/dto/mappers"
	"marketplace-search-api/api/dto/requests"
	"marketplace-search-api/api/dto/responses"
	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
)

// CompareService interface defines the methods needed from the comparison service
type CompareService interface {
	Compare(ctx context.Context, ids []string) (*domain.Comparison, error)
}

// CompareHandler handles comparison requests
type CompareHandler struct {
	compareService CompareService
}

// NewCompareHandler creates a new comparison handler
func NewCompareHandler(compareService CompareService) *CompareHandler {
	return &CompareHandler{compareService: compareService}
}

// RegisterRoutes registers comparison routes
func (h *CompareHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "compareListings",
		Method:      http.MethodPost,
		Path:        "/api/compare",
		Summary:     "Compare listings",
		Description: "Builds a feature availability matrix and marketplace scores for the selected listings. Ids beyond the comparison limit are reported as rejected.",
		Tags:        []string{"Compare"},
	}, h.Compare)
}

// CompareInput defines the input for the Compare operation
type CompareInput struct {
	Body requests.CompareRequest
}

// CompareOutput defines the output for the Compare operation
type CompareOutput struct {
	Body responses.CompareResponse
}

// Compare handles the POST /api/compare endpoint
func (h *CompareHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	input.Body.Normalize()
	if len(input.Body.IDs) == 0 {
		return nil, toHumaError(&coreerrors.ValidationError{Field: "ids", Message: "at least one listing id is required"})
	}

	comparison, err := h.compareService.Compare(ctx, input.Body.IDs)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &CompareOutput{Body: mappers.ToCompareResponse(comparison)}, nil
}
