// ABOUTME: Response DTOs for review endpoints
// ABOUTME: Reviews are returned newest first together with the listing's rating summary

package responses

import "time"

// ReviewResponse represents a stored review
type ReviewResponse struct {
	ID         string    `json:"id" doc:"Review id"`
	ListingID  string    `json:"listingId" doc:"Id of the reviewed listing"`
	Rating     int       `json:"rating" doc:"Rating from 1 to 5"`
	Title      string    `json:"title,omitempty" doc:"Review headline"`
	Body       string    `json:"body,omitempty" doc:"Review text"`
	AuthorName string    `json:"authorName,omitempty" doc:"Reviewer display name"`
	CreatedAt  time.Time `json:"createdAt" doc:"When the review was submitted"`
}

// RatingResponse summarises a listing's reviews
type RatingResponse struct {
	Average     float64 `json:"average" doc:"Average rating, 0 when unrated"`
	ReviewCount int     `json:"reviewCount" doc:"Number of reviews"`
}

// SubmitReviewResponse is returned after a review is stored
type SubmitReviewResponse struct {
	Success bool           `json:"success"`
	Review  ReviewResponse `json:"review"`
}

// ListReviewsResponse is a page of a listing's reviews
type ListReviewsResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Reviews []ReviewResponse `json:"reviews"`
	Rating  RatingResponse   `json:"rating"`
}
