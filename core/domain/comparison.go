// ABOUTME: Comparison view domain models produced by the feature matrix builder
// ABOUTME: A comparison is a set of feature groups, each a list of rows with one cell per listing

package domain

// ComparisonCell is the availability of one feature for one listing
type ComparisonCell struct {
	ListingID    string       `json:"listingId"`
	Availability Availability `json:"availability"`
	Limitation   string       `json:"limitation,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// ComparisonRow is one feature across every compared listing
type ComparisonRow struct {
	FeatureID string           `json:"featureId"`
	Title     string           `json:"title"`
	Cells     []ComparisonCell `json:"cells"`
}

// ComparisonFeatureGroup is a feature category with its rows
type ComparisonFeatureGroup struct {
	CategoryID string          `json:"categoryId"`
	Title      string          `json:"title"`
	Order      *int            `json:"order,omitempty"`
	Features   []ComparisonRow `json:"features"`
}

// ComparedListing is a listing with its computed marketplace score
type ComparedListing struct {
	Listing
	MarketplaceScore float64 `json:"marketplaceScore"`
}

// Comparison is the full side-by-side view
type Comparison struct {
	Limit    int                      `json:"limit"`
	Rejected []string                 `json:"rejected"`
	Listings []ComparedListing        `json:"listings"`
	Groups   []ComparisonFeatureGroup `json:"groups"`
}
