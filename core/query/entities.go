package query

import "marketplace-search-api/core/domain"

// Entity types known to the content store
const (
	TypeSoftware        = string(domain.KindSoftware)
	TypeService         = string(domain.KindService)
	TypeArticle         = "article"
	TypeSearchIntent    = "searchIntent"
	TypeFeature         = "feature"
	TypeFeatureCategory = "featureCategory"
	TypeCategory        = "category"
)

// MatchClass ranks how strongly a field identifies a document
type MatchClass int

const (
	ClassReference MatchClass = iota
	ClassSlug
	ClassBody
	ClassTitle
)

// String names the class for logs
func (c MatchClass) String() string {
	switch c {
	case ClassTitle:
		return "title"
	case ClassBody:
		return "body"
	case ClassSlug:
		return "slug"
	}
	return "reference"
}

// TextField is a field searched by the free-text clause. Name is also the
// projection key the value is returned under.
type TextField struct {
	Name  string
	Path  Path
	Class MatchClass
}

// Entity describes how one entity type is searched and projected
type Entity struct {
	Type       string
	TextFields []TextField

	// Filters maps a structured filter name to the paths it tests; the
	// filter matches when any path equals the value
	Filters map[string][]Path

	Projection []Field
}

// Supports reports whether the entity declares the named filter
func (e *Entity) Supports(filter string) bool {
	_, ok := e.Filters[filter]
	return ok
}

func fields(pairs ...string) []Field {
	out := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Field{Name: pairs[i], Path: MustPath(pairs[i+1])})
	}
	return out
}

func refFilter(field string, labels ...string) []Path {
	paths := []Path{MustPath(field + "->key")}
	for _, l := range labels {
		paths = append(paths, MustPath(field+"->"+l))
	}
	return paths
}

// withText appends every text field to the projection under its own name
func withText(projection []Field, text []TextField) []Field {
	seen := make(map[string]bool, len(projection))
	for _, f := range projection {
		seen[f.Name] = true
	}
	for _, t := range text {
		if !seen[t.Name] {
			projection = append(projection, Field{Name: t.Name, Path: t.Path})
			seen[t.Name] = true
		}
	}
	return projection
}

var listingText = []TextField{
	{Name: "title", Path: MustPath("title"), Class: ClassTitle},
	{Name: "slug", Path: MustPath("slug"), Class: ClassSlug},
	{Name: "tagline", Path: MustPath("tagline"), Class: ClassBody},
	{Name: "description", Path: MustPath("description"), Class: ClassBody},
	{Name: "categoryTitle", Path: MustPath("category->title"), Class: ClassReference},
	{Name: "featureTitles", Path: MustPath("features[].feature->title"), Class: ClassReference},
	{Name: "featureSynonyms", Path: MustPath("features[].feature->synonyms"), Class: ClassReference},
}

var listingProjection = fields(
	"_id", "_id",
	"_type", "_type",
	"categoryId", "category._ref",
	"categoryKey", "category->key",
	"logoUrl", "logoUrl",
	"pricing", "pricing",
	"features", "features",
	"rating", "rating",
	"trustMetrics", "trustMetrics",
	"badges", "badges[]->title",
)

var softwareEntity = &Entity{
	Type:       TypeSoftware,
	TextFields: listingText,
	Filters: map[string][]Path{
		"category": refFilter("category", "title"),
	},
	Projection: withText(listingProjection, listingText),
}

var serviceText = append([]TextField{
	{Name: "name", Path: MustPath("name"), Class: ClassTitle},
	{Name: "serviceAreas", Path: MustPath("serviceAreas[]->title"), Class: ClassReference},
}, listingText...)

var serviceEntity = &Entity{
	Type:       TypeService,
	TextFields: serviceText,
	Filters: map[string][]Path{
		"category":   refFilter("category", "title"),
		"brokerType": refFilter("brokerType", "title"),
	},
	Projection: withText(append(fields("brokerType", "brokerType->title"), listingProjection...), serviceText),
}

var articleText = []TextField{
	{Name: "title", Path: MustPath("title"), Class: ClassTitle},
	{Name: "slug", Path: MustPath("slug"), Class: ClassSlug},
	{Name: "excerpt", Path: MustPath("excerpt"), Class: ClassBody},
	{Name: "categoryTitle", Path: MustPath("category->title"), Class: ClassReference},
	{Name: "author", Path: MustPath("author->name"), Class: ClassReference},
}

var articleEntity = &Entity{
	Type:       TypeArticle,
	TextFields: articleText,
	Filters: map[string][]Path{
		"category":   refFilter("category", "title"),
		"blogType":   refFilter("blogType", "title"),
		"brokerType": refFilter("brokerType", "title"),
		"author":     refFilter("author", "name"),
	},
	Projection: withText(fields(
		"_id", "_id",
		"_type", "_type",
		"categoryId", "category._ref",
		"categoryKey", "category->key",
		"blogType", "blogType->title",
		"brokerType", "brokerType->title",
		"publishedAt", "publishedAt",
	), articleText),
}

var entities = map[string]*Entity{
	TypeSoftware: softwareEntity,
	TypeService:  serviceEntity,
	TypeArticle:  articleEntity,
}

// LookupEntity returns the searchable entity definition for a type
func LookupEntity(t string) (*Entity, bool) {
	e, ok := entities[t]
	return e, ok
}

// IntentProjection is the projection used to load search intents
var IntentProjection = fields(
	"_id", "_id",
	"title", "title",
	"slug", "slug",
	"categoryKey", "categoryKey",
	"synonyms", "synonyms",
	"exampleQueries", "exampleQueries",
	"priority", "priority",
)

// FeatureProjection is the projection used to load the feature universe
var FeatureProjection = fields(
	"_id", "_id",
	"title", "title",
	"synonyms", "synonyms",
	"kinds", "kinds",
	"categoryId", "category._ref",
	"categoryTitle", "category->title",
	"categoryOrder", "category->order",
)

// ListingProjection returns the projection for a listing kind
func ListingProjection(kind domain.Kind) []Field {
	if kind == domain.KindService {
		return serviceEntity.Projection
	}
	return softwareEntity.Projection
}
