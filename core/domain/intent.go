// ABOUTME: SearchIntent domain model describing canonical query concepts
// ABOUTME: Intents normalise and expand raw user queries and drive autocomplete

package domain

// SearchIntent is a canonical query concept
type SearchIntent struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	CategoryKey    string   `json:"categoryKey,omitempty"`
	Synonyms       []string `json:"synonyms,omitempty"`
	ExampleQueries []string `json:"exampleQueries,omitempty"`
	Priority       int      `json:"priority"`
}

// IntentSuggestion is the autocomplete projection of an intent
type IntentSuggestion struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
