package query

import (
	"fmt"
	"math"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"marketplace-search-api/core/domain"
)

type refDoc struct {
	Ref string `json:"_ref"`
}

type featureDeclDoc struct {
	Feature      refDoc `json:"feature"`
	Availability string `json:"availability"`
	Limitation   string `json:"limitation"`
	Notes        string `json:"notes"`
}

type listingDoc struct {
	ID            string               `json:"_id"`
	Type          string               `json:"_type"`
	Title         string               `json:"title"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	CategoryID    string               `json:"categoryId"`
	CategoryKey   string               `json:"categoryKey"`
	CategoryTitle string               `json:"categoryTitle"`
	Tagline       string               `json:"tagline"`
	Description   string               `json:"description"`
	LogoURL       string               `json:"logoUrl"`
	Pricing       *domain.Pricing      `json:"pricing"`
	Features      []featureDeclDoc     `json:"features"`
	ServiceAreas  []string             `json:"serviceAreas"`
	BrokerType    string               `json:"brokerType"`
	Rating        *domain.Rating       `json:"rating"`
	TrustMetrics  *domain.TrustMetrics `json:"trustMetrics"`
	Badges        []string             `json:"badges"`
}

type articleDoc struct {
	ID            string     `json:"_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	CategoryID    string     `json:"categoryId"`
	CategoryKey   string     `json:"categoryKey"`
	CategoryTitle string     `json:"categoryTitle"`
	BlogType      string     `json:"blogType"`
	BrokerType    string     `json:"brokerType"`
	Author        string     `json:"author"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

type featureDoc struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Synonyms      []string `json:"synonyms"`
	Kinds         []string `json:"kinds"`
	CategoryID    string   `json:"categoryId"`
	CategoryTitle string   `json:"categoryTitle"`
	CategoryOrder *float64 `json:"categoryOrder"`
}

func decode(doc Document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// DecodeListing maps a projected listing document onto the domain model
func DecodeListing(doc Document) (domain.Listing, error) {
	var d listingDoc
	if err := decode(doc, &d); err != nil {
		return domain.Listing{}, fmt.Errorf("decode listing %s: %w", doc.ID(), err)
	}
	kind, ok := domain.ParseKind(d.Type)
	if !ok {
		return domain.Listing{}, fmt.Errorf("decode listing %s: unknown kind %q", d.ID, d.Type)
	}

	l := domain.Listing{
		ID:   d.ID,
		Kind: kind,
		// services may carry either field
		Title:        firstNonEmpty(d.Title, d.Name),
		Slug:         d.Slug,
		Category:     domain.CategoryRef{ID: d.CategoryID, Key: d.CategoryKey, Title: d.CategoryTitle},
		Tagline:      d.Tagline,
		Description:  d.Description,
		LogoURL:      d.LogoURL,
		Pricing:      d.Pricing,
		ServiceAreas: d.ServiceAreas,
		BrokerType:   d.BrokerType,
		TrustMetrics: d.TrustMetrics,
		Badges:       d.Badges,
	}
	if d.Rating != nil {
		l.Rating = domain.Rating{
			Average:     math.Min(5, math.Max(0, d.Rating.Average)),
			ReviewCount: max(0, d.Rating.ReviewCount),
		}
	}
	for _, f := range d.Features {
		if f.Feature.Ref == "" {
			continue
		}
		l.Features = append(l.Features, domain.FeatureDeclaration{
			FeatureID:    f.Feature.Ref,
			Availability: normalizeAvailability(f.Availability),
			Limitation:   f.Limitation,
			Notes:        f.Notes,
		})
	}
	return l, nil
}

// DecodeArticle maps a projected article document onto the domain model
func DecodeArticle(doc Document) (domain.Article, error) {
	var d articleDoc
	if err := decode(doc, &d); err != nil {
		return domain.Article{}, fmt.Errorf("decode article %s: %w", doc.ID(), err)
	}
	return domain.Article{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        d.Slug,
		Excerpt:     d.Excerpt,
		Category:    domain.CategoryRef{ID: d.CategoryID, Key: d.CategoryKey, Title: d.CategoryTitle},
		BlogType:    d.BlogType,
		BrokerType:  d.BrokerType,
		Author:      d.Author,
		PublishedAt: d.PublishedAt,
	}, nil
}

// DecodeIntent maps a projected search intent document onto the domain model
func DecodeIntent(doc Document) (domain.SearchIntent, error) {
	var in struct {
		ID string `json:"_id"`
		domain.SearchIntent
	}
	if err := decode(doc, &in); err != nil {
		return domain.SearchIntent{}, fmt.Errorf("decode intent %s: %w", doc.ID(), err)
	}
	in.SearchIntent.ID = in.ID
	return in.SearchIntent, nil
}

// DecodeFeature maps a projected feature document onto the domain model
func DecodeFeature(doc Document) (domain.Feature, error) {
	var d featureDoc
	if err := decode(doc, &d); err != nil {
		return domain.Feature{}, fmt.Errorf("decode feature %s: %w", doc.ID(), err)
	}
	f := domain.Feature{ID: d.ID, Title: d.Title, Synonyms: d.Synonyms}
	for _, k := range d.Kinds {
		if kind, ok := domain.ParseKind(k); ok {
			f.Kinds = append(f.Kinds, kind)
		}
	}
	if d.CategoryID != "" {
		f.Category = &domain.FeatureCategory{ID: d.CategoryID, Title: d.CategoryTitle}
		if d.CategoryOrder != nil {
			order := int(*d.CategoryOrder)
			f.Category.Order = &order
		}
	}
	return f, nil
}

func normalizeAvailability(s string) domain.Availability {
	a := domain.Availability(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return domain.AvailabilityNo
	}
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
