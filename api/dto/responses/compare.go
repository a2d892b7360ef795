// ABOUTME: Response DTOs for the comparison endpoint

package responses

import "marketplace-search-api/core/domain"

// CompareResponse is the side-by-side comparison view
type CompareResponse struct {
	Success  bool                            `json:"success"`
	Limit    int                             `json:"limit" doc:"Maximum number of listings in a comparison"`
	Rejected []string                        `json:"rejected" doc:"Ids not added because the comparison was full"`
	Listings []domain.ComparedListing        `json:"listings" doc:"Compared listings with marketplace scores"`
	Groups   []domain.ComparisonFeatureGroup `json:"groups" doc:"Feature matrix grouped by feature category"`
}
