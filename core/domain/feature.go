// ABOUTME: Feature taxonomy domain models used by the comparison matrix
// ABOUTME: Features are grouped by category and may be scoped to specific listing kinds

package domain

// Feature is a comparable capability
type Feature struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Category *FeatureCategory `json:"category,omitempty"`
	Synonyms []string         `json:"synonyms,omitempty"`

	// Kinds limits the feature to listings of these kinds; empty means all kinds
	Kinds []Kind `json:"kinds,omitempty"`
}

// FeatureCategory groups features for display
type FeatureCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Order defines display order; nil sorts last
	Order *int `json:"order,omitempty"`
}

// AppliesTo reports whether the feature is relevant for a listing kind
func (f *Feature) AppliesTo(kind Kind) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for _, k := range f.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
