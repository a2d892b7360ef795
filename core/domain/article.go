// ABOUTME: Article domain model for editorial content searched by the blog endpoint

package domain

import "time"

// Article is an editorial entry
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Excerpt     string      `json:"excerpt,omitempty"`
	Category    CategoryRef `json:"category"`
	BlogType    string      `json:"blogType,omitempty"`
	BrokerType  string      `json:"brokerType,omitempty"`
	Author      string      `json:"author,omitempty"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
}
