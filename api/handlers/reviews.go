// ABOUTME: Review handlers for the Huma API
// ABOUTME: Accepts user ratings and lists a listing's reviews with its rating summary

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"marketplace-search-api/api/dto/mappers"
	"marketplace-search-api/api/dto/requests"
	"marketplace-search-api/api/dto/responses"
	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/reviews"
)

// ReviewService interface defines the methods needed from the reviews service
type ReviewService interface {
	Submit(ctx context.Context, sub reviews.Submission) (*domain.Review, error)
	List(ctx context.Context, listingID string, limit int) ([]domain.Review, error)
	Summary(ctx context.Context, listingID string) (domain.Rating, error)
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	reviewService ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "submitReview",
		Method:        http.MethodPost,
		Path:          "/api/reviews",
		Summary:       "Submit a review",
		Description:   "Stores a 1-5 rating with optional text for an existing listing",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
	}, h.SubmitReview)

	huma.Register(api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/listings/{id}/reviews",
		Summary:     "List a listing's reviews",
		Description: "Returns the newest reviews of a listing and its rating summary",
		Tags:        []string{"Reviews"},
	}, h.ListReviews)
}

// SubmitReviewInput defines the input for the SubmitReview operation
type SubmitReviewInput struct {
	Body requests.SubmitReviewRequest
}

// SubmitReviewOutput defines the output for the SubmitReview operation
type SubmitReviewOutput struct {
	Body responses.SubmitReviewResponse
}

// SubmitReview handles the POST /api/reviews endpoint
func (h *ReviewHandler) SubmitReview(ctx context.Context, input *SubmitReviewInput) (*SubmitReviewOutput, error) {
	review, err := h.reviewService.Submit(ctx, input.Body.ToSubmission())
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SubmitReviewOutput{
		Body: responses.SubmitReviewResponse{
			Success: true,
			Review:  *mappers.ToReviewResponse(review),
		},
	}, nil
}

// ListReviewsInput defines the input for the ListReviews operation
type ListReviewsInput struct {
	ID    string `path:"id" doc:"Listing id"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of reviews"`
}

// ListReviewsOutput defines the output for the ListReviews operation
type ListReviewsOutput struct {
	Body responses.ListReviewsResponse
}

// ListReviews handles the GET /api/listings/{id}/reviews endpoint
func (h *ReviewHandler) ListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	list, err := h.reviewService.List(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}

	rating, err := h.reviewService.Summary(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &ListReviewsOutput{Body: mappers.ToListReviewsResponse(list, rating)}, nil
}
