// ABOUTME: Feature matrix builder normalizes listings into a feature availability grid
// ABOUTME: Rows are grouped by feature category with one cell per listing in input order

package compare

import (
	"sort"
	"strings"

	"marketplace-search-api/core/domain"
)

// Synthetic group for features without a category
const (
	OtherGroupID    = "other"
	OtherGroupTitle = "Other"
)

type group struct {
	category domain.FeatureCategory
	features []domain.Feature
}

// BuildMatrix builds the comparison grid for listings against the feature
// universe. Categories are ordered by order (unset last) then title, and
// features by title. A feature is shown when it applies to the kind of at
// least one listing; a listing without a declaration for a shown feature
// reports "no". Every row has exactly one cell per listing, in input order.
// Inputs are not modified.
func BuildMatrix(listings []domain.Listing, universe []domain.Feature) []domain.ComparisonFeatureGroup {
	kinds := make(map[domain.Kind]bool, 2)
	for i := range listings {
		kinds[listings[i].Kind] = true
	}

	groups := make(map[string]*group)
	var other *group
	seen := make(map[string]bool, len(universe))
	for i := range universe {
		f := universe[i]
		if f.ID == "" || seen[f.ID] || !applicable(&f, kinds) {
			continue
		}
		seen[f.ID] = true

		if f.Category == nil || f.Category.ID == "" {
			if other == nil {
				other = &group{category: domain.FeatureCategory{ID: OtherGroupID, Title: OtherGroupTitle}}
			}
			other.features = append(other.features, f)
			continue
		}
		g, ok := groups[f.Category.ID]
		if !ok {
			g = &group{category: *f.Category}
			groups[f.Category.ID] = g
		}
		g.features = append(g.features, f)
	}

	ordered := make([]*group, 0, len(groups)+1)
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return categoryLess(&ordered[i].category, &ordered[j].category)
	})
	if other != nil {
		ordered = append(ordered, other)
	}

	out := make([]domain.ComparisonFeatureGroup, 0, len(ordered))
	for _, g := range ordered {
		sort.Slice(g.features, func(i, j int) bool {
			return titleLess(g.features[i].Title, g.features[i].ID, g.features[j].Title, g.features[j].ID)
		})

		fg := domain.ComparisonFeatureGroup{
			CategoryID: g.category.ID,
			Title:      g.category.Title,
			Features:   make([]domain.ComparisonRow, 0, len(g.features)),
		}
		if g.category.Order != nil {
			order := *g.category.Order
			fg.Order = &order
		}
		for _, f := range g.features {
			fg.Features = append(fg.Features, row(f, listings))
		}
		out = append(out, fg)
	}
	return out
}

func row(f domain.Feature, listings []domain.Listing) domain.ComparisonRow {
	r := domain.ComparisonRow{
		FeatureID: f.ID,
		Title:     f.Title,
		Cells:     make([]domain.ComparisonCell, len(listings)),
	}
	for i := range listings {
		cell := domain.ComparisonCell{ListingID: listings[i].ID, Availability: domain.AvailabilityNo}
		if decl, ok := listings[i].Declaration(f.ID); ok && decl.Availability.IsValid() {
			cell.Availability = decl.Availability
			if decl.Availability == domain.AvailabilityPartial {
				cell.Limitation = decl.Limitation
				cell.Notes = decl.Notes
			}
		}
		r.Cells[i] = cell
	}
	return r
}

func applicable(f *domain.Feature, kinds map[domain.Kind]bool) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for k := range kinds {
		if f.AppliesTo(k) {
			return true
		}
	}
	return false
}

func categoryLess(a, b *domain.FeatureCategory) bool {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
	case a.Order != nil:
		return true
	case b.Order != nil:
		return false
	}
	return titleLess(a.Title, a.ID, b.Title, b.ID)
}

func titleLess(titleA, idA, titleB, idB string) bool {
	la, lb := strings.ToLower(titleA), strings.ToLower(titleB)
	if la != lb {
		return la < lb
	}
	if titleA != titleB {
		return titleA < titleB
	}
	return idA < idB
}
