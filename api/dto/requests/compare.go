// ABOUTME: Request DTOs for comparison and review endpoints
// ABOUTME: Provides validation tags and conversion to service inputs

package requests

import (
	"strings"

	"marketplace-search-api/core/reviews"
)

// CompareRequest represents the request body for building a comparison
type CompareRequest struct {
	// IDs are the listing ids in selection order
	IDs []string `json:"ids" minItems:"1" maxItems:"50" doc:"Listing ids to compare, in selection order"`
}

// Normalize trims ids and drops empty entries
func (r *CompareRequest) Normalize() {
	ids := make([]string, 0, len(r.IDs))
	for _, id := range r.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	r.IDs = ids
}

// SubmitReviewRequest represents a user review submission
type SubmitReviewRequest struct {
	ListingID  string `json:"listingId" minLength:"1" doc:"Id of the reviewed listing"`
	Rating     int    `json:"rating" minimum:"1" maximum:"5" doc:"Rating from 1 to 5"`
	Title      string `json:"title,omitempty" maxLength:"200" doc:"Short review headline"`
	Body       string `json:"body,omitempty" doc:"Review text"`
	AuthorName string `json:"authorName,omitempty" maxLength:"100" doc:"Display name of the reviewer"`
}

// ToSubmission converts the request to a reviews service submission
func (r *SubmitReviewRequest) ToSubmission() reviews.Submission {
	return reviews.Submission{
		ListingID:  strings.TrimSpace(r.ListingID),
		Rating:     r.Rating,
		Title:      strings.TrimSpace(r.Title),
		Body:       strings.TrimSpace(r.Body),
		AuthorName: strings.TrimSpace(r.AuthorName),
	}
}
