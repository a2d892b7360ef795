// ABOUTME: SQLite-backed content store and review store
// ABOUTME: Keeps catalogue documents as JSON bodies and reviews in their own table

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// Client implements ContentStore and ReviewStore using SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger
}

// NewStore opens (or creates) the database at filePath
func NewStore(filePath string, logger interfaces.Logger) (*Client, error) {
	if filePath == "" {
		filePath = "marketplace.db"
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// :memory: databases are per connection
	if filePath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return client, nil
}

func (c *Client) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			body TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(type);
		CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			listing_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			author_name TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id, created_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Put inserts or replaces documents in one transaction
func (c *Client) Put(ctx context.Context, docs ...query.Document) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO documents (id, type, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc.ID() == "" || doc.Type() == "" {
			return errors.New("document requires _id and _type")
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document %s: %w", doc.ID(), err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID(), doc.Type(), string(body)); err != nil {
			return fmt.Errorf("failed to store document %s: %w", doc.ID(), err)
		}
	}

	return tx.Commit()
}

// Clear removes every document. Reviews are kept.
func (c *Client) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

// Query executes a content query
func (c *Client) Query(ctx context.Context, q query.Query) ([]query.Document, error) {
	stmt, params, err := NewQueryBuilder().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query: %w", err)
	}

	c.logger.Debug("Executing content query", map[string]interface{}{
		"type":  q.Type,
		"query": q.String(),
	})

	rows, err := c.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]query.Document, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc query.Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	return docs, nil
}

// Save persists a review
func (c *Client) Save(ctx context.Context, review *domain.Review) error {
	if review == nil || review.ID == "" {
		return errors.New("review requires an id")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO reviews (id, listing_id, rating, title, body, author_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, review.ID, review.ListingID, review.Rating, review.Title, review.Body, review.AuthorName, review.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	return nil
}

// ListByListing returns the newest reviews of a listing
func (c *Client) ListByListing(ctx context.Context, listingID string, limit int) ([]domain.Review, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, listing_id, rating, title, body, author_name, created_at
		FROM reviews WHERE listing_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var r domain.Review
		var created int64
		if err := rows.Scan(&r.ID, &r.ListingID, &r.Rating, &r.Title, &r.Body, &r.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

// Aggregates returns the average rating and count per listing
func (c *Client) Aggregates(ctx context.Context, listingIDs []string) (map[string]domain.Rating, error) {
	out := make(map[string]domain.Rating)
	if len(listingIDs) == 0 {
		return out, nil
	}

	marks := make([]string, len(listingIDs))
	params := make([]interface{}, len(listingIDs))
	for i, id := range listingIDs {
		marks[i] = "?"
		params[i] = id
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT listing_id, AVG(rating), COUNT(*)
		FROM reviews WHERE listing_id IN (`+strings.Join(marks, ", ")+`)
		GROUP BY listing_id
	`, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var rating domain.Rating
		if err := rows.Scan(&id, &rating.Average, &rating.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		out[id] = rating
	}

	return out, rows.Err()
}

// Stats reports row counts
func (c *Client) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"documents", "reviews"} {
		var n int
		if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}

// Ping checks the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
