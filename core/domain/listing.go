// ABOUTME: Listing domain model for comparable catalogue entries (software and service providers)
// ABOUTME: Defines the shared listing supertype, feature declarations, pricing, rating and trust signals

package domain

// Kind discriminates the listing variants
type Kind string

const (
	// KindSoftware is a software product listing
	KindSoftware Kind = "software"

	// KindService is a service provider listing
	KindService Kind = "service"
)

// ParseKind converts a raw value to a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSoftware, KindService:
		return Kind(s), true
	}
	return "", false
}

// Availability describes whether a listing supports a feature
type Availability string

const (
	AvailabilityYes     Availability = "yes"
	AvailabilityPartial Availability = "partial"
	AvailabilityNo      Availability = "no"
)

// IsValid reports whether the availability is one of yes, partial or no
func (a Availability) IsValid() bool {
	return a == AvailabilityYes || a == AvailabilityPartial || a == AvailabilityNo
}

// Listing is a unit of comparison. Software and service listings share this
// shape; kind-specific fields are left empty on the other kind.
type Listing struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Title is the display name (software "title" or service "name")
	Title string `json:"title"`
	Slug  string `json:"slug"`

	Category CategoryRef `json:"category"`

	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`

	Pricing  *Pricing             `json:"pricing,omitempty"`
	Features []FeatureDeclaration `json:"features,omitempty"`

	// Service-only fields
	ServiceAreas []string `json:"serviceAreas,omitempty"`
	BrokerType   string   `json:"brokerType,omitempty"`

	Rating       Rating        `json:"rating"`
	TrustMetrics *TrustMetrics `json:"trustMetrics,omitempty"`
	Badges       []string      `json:"badges,omitempty"`
}

// CategoryRef is a dereferenced category reference
type CategoryRef struct {
	ID    string `json:"id,omitempty"`
	Key   string `json:"key,omitempty"`
	Title string `json:"title,omitempty"`
}

// Pricing describes how a listing charges
type Pricing struct {
	Model    string   `json:"model,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// FeatureDeclaration is a listing's own statement about one feature
type FeatureDeclaration struct {
	FeatureID    string       `json:"featureId"`
	Availability Availability `json:"availability"`
	Limitation   string       `json:"limitation,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// Rating summarises user reviews
type Rating struct {
	Average     float64 `json:"average"`
	ReviewCount int     `json:"reviewCount"`
}

// TrustMetrics are optional trust signals. Nil fields are unknown.
type TrustMetrics struct {
	ResponseTimeHours *float64 `json:"responseTimeHours,omitempty"`
	VerifiedRatio     *float64 `json:"verifiedRatio,omitempty"`
	ReviewRecencyDays *float64 `json:"reviewRecencyDays,omitempty"`
}

// IsValid checks the listing invariants
func (l *Listing) IsValid() bool {
	if l.ID == "" || l.Title == "" {
		return false
	}
	if _, ok := ParseKind(string(l.Kind)); !ok {
		return false
	}
	if l.Rating.Average < 0 || l.Rating.Average > 5 || l.Rating.ReviewCount < 0 {
		return false
	}
	for _, f := range l.Features {
		if !f.Availability.IsValid() {
			return false
		}
	}
	return true
}

// Declaration returns the listing's declaration for a feature id, if any
func (l *Listing) Declaration(featureID string) (FeatureDeclaration, bool) {
	for _, f := range l.Features {
		if f.FeatureID == featureID {
			return f, true
		}
	}
	return FeatureDeclaration{}, false
}

// Merge combines two rating summaries weighted by their review counts
func (r Rating) Merge(other Rating) Rating {
	total := r.ReviewCount + other.ReviewCount
	if total <= 0 {
		return r
	}
	avg := (r.Average*float64(r.ReviewCount) + other.Average*float64(other.ReviewCount)) / float64(total)
	return Rating{Average: avg, ReviewCount: total}
}
