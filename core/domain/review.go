// ABOUTME: Review domain model for user-submitted ratings
// ABOUTME: Provides validation for the persisted review fields

package domain

import (
	"time"
	"unicode/utf8"
)

// MaxReviewBodyLength bounds the review text in characters
const MaxReviewBodyLength = 5000

// Review is a user rating of a listing
type Review struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsValid checks that the review has a listing, a 1-5 rating and a bounded body
func (r *Review) IsValid() bool {
	if r.ListingID == "" {
		return false
	}
	if r.Rating < 1 || r.Rating > 5 {
		return false
	}
	return utf8.RuneCountInString(r.Body) <= MaxReviewBodyLength
}
