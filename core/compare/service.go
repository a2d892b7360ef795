// ABOUTME: Comparison service assembles the side-by-side view for selected listings
// ABOUTME: Loads listings and the feature universe, overlays review ratings and scores each listing

package compare

import (
	"context"
	"strings"

	"marketplace-search-api/core/domain"
	coreerrors "marketplace-search-api/core/errors"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
	"marketplace-search-api/core/scoring"
)

// Service builds comparisons from listing ids
type Service struct {
	deps interfaces.Dependencies
}

// NewService creates a new comparison service instance
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{deps: deps}
}

// Compare selects the given listings in order, up to MaxSelection, and
// builds their comparison. Ids beyond the limit are reported in Rejected.
func (s *Service) Compare(ctx context.Context, ids []string) (*domain.Comparison, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return nil, &coreerrors.ValidationError{Field: "ids", Message: "at least one listing id is required"}
	}
	if s.deps.Store == nil {
		return nil, &coreerrors.ExternalAPIError{API: "content-store", Message: "content store not configured"}
	}

	wanted := unique
	if len(wanted) > MaxSelection {
		wanted = wanted[:MaxSelection]
	}
	loaded, err := s.loadListings(ctx, wanted)
	if err != nil {
		return nil, err
	}

	for _, id := range wanted {
		if _, ok := loaded[id]; !ok {
			return nil, &coreerrors.NotFoundError{Resource: "listing", ID: id}
		}
	}

	selection := NewSelection()
	rejected := make([]string, 0)
	for _, id := range unique {
		l, ok := loaded[id]
		if !ok {
			// beyond the limit; never loaded
			l = domain.Listing{ID: id}
		}
		if !selection.Add(l) {
			rejected = append(rejected, id)
		}
	}

	features, err := s.loadFeatures(ctx)
	if err != nil {
		return nil, err
	}

	listings := selection.Snapshot()
	s.overlayRatings(ctx, listings)

	compared := make([]domain.ComparedListing, len(listings))
	for i := range listings {
		compared[i] = domain.ComparedListing{
			Listing:          listings[i],
			MarketplaceScore: scoring.ComputeMarketplaceScore(scoring.InputsFor(&listings[i])),
		}
	}

	return &domain.Comparison{
		Limit:    selection.Limit(),
		Rejected: rejected,
		Listings: compared,
		Groups:   BuildMatrix(listings, features),
	}, nil
}

// loadListings fetches listings by id, one query per listing kind
func (s *Service) loadListings(ctx context.Context, ids []string) (map[string]domain.Listing, error) {
	out := make(map[string]domain.Listing, len(ids))
	for _, kind := range []domain.Kind{domain.KindSoftware, domain.KindService} {
		docs, err := s.deps.Store.Query(ctx, query.Query{
			Type:       string(kind),
			Filter:     query.And(query.TypeIs(string(kind)), query.IDIn(ids...)),
			Projection: query.ListingProjection(kind),
		})
		if err != nil {
			return nil, storeError(ctx, err)
		}
		for _, doc := range docs {
			l, err := query.DecodeListing(doc)
			if err != nil {
				s.logger().Warn("Skipping undecodable listing", map[string]interface{}{
					"id":    doc.ID(),
					"error": err.Error(),
				})
				continue
			}
			out[l.ID] = l
		}
	}
	return out, nil
}

// loadFeatures fetches the full feature universe
func (s *Service) loadFeatures(ctx context.Context) ([]domain.Feature, error) {
	docs, err := s.deps.Store.Query(ctx, query.Query{
		Type:       query.TypeFeature,
		Filter:     query.TypeIs(query.TypeFeature),
		Projection: query.FeatureProjection,
	})
	if err != nil {
		return nil, storeError(ctx, err)
	}

	features := make([]domain.Feature, 0, len(docs))
	for _, doc := range docs {
		f, err := query.DecodeFeature(doc)
		if err != nil {
			s.logger().Warn("Skipping undecodable feature", map[string]interface{}{
				"id":    doc.ID(),
				"error": err.Error(),
			})
			continue
		}
		features = append(features, f)
	}
	return features, nil
}

// overlayRatings merges user review aggregates into the catalogue ratings
func (s *Service) overlayRatings(ctx context.Context, listings []domain.Listing) {
	if s.deps.Reviews == nil || len(listings) == 0 {
		return
	}

	ids := make([]string, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}
	aggregates, err := s.deps.Reviews.Aggregates(ctx, ids)
	if err != nil {
		s.logger().Warn("Review aggregates unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	for i := range listings {
		if agg, ok := aggregates[listings[i].ID]; ok {
			listings[i].Rating = listings[i].Rating.Merge(agg)
		}
	}
}

func (s *Service) logger() interfaces.Logger {
	if s.deps.Logger == nil {
		return interfaces.NopLogger{}
	}
	return s.deps.Logger
}

func storeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &coreerrors.ExternalAPIError{API: "content-store", Message: err.Error()}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
