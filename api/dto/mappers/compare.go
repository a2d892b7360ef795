// ABOUTME: Mappers for comparison and review DTOs

package mappers

import (
	"marketplace-search-api/api/dto/responses"
	"marketplace-search-api/core/domain"
)

// ToCompareResponse converts a domain Comparison to its DTO
func ToCompareResponse(c *domain.Comparison) responses.CompareResponse {
	resp := responses.CompareResponse{
		Success:  true,
		Rejected: []string{},
		Listings: []domain.ComparedListing{},
		Groups:   []domain.ComparisonFeatureGroup{},
	}
	if c == nil {
		return resp
	}

	resp.Limit = c.Limit
	if c.Rejected != nil {
		resp.Rejected = c.Rejected
	}
	if c.Listings != nil {
		resp.Listings = c.Listings
	}
	if c.Groups != nil {
		resp.Groups = c.Groups
	}
	return resp
}

// ToReviewResponse converts a domain Review to its DTO
func ToReviewResponse(r *domain.Review) *responses.ReviewResponse {
	if r == nil {
		return nil
	}
	return &responses.ReviewResponse{
		ID:         r.ID,
		ListingID:  r.ListingID,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt,
	}
}

// ToListReviewsResponse converts a page of reviews and the listing summary
func ToListReviewsResponse(reviews []domain.Review, rating domain.Rating) responses.ListReviewsResponse {
	items := make([]responses.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, *ToReviewResponse(&reviews[i]))
	}

	return responses.ListReviewsResponse{
		Success: true,
		Count:   len(items),
		Reviews: items,
		Rating: responses.RatingResponse{
			Average:     rating.Average,
			ReviewCount: rating.ReviewCount,
		},
	}
}
