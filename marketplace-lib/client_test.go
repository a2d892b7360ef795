package marketplace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"marketplace-search-api/core/query"
	"marketplace-search-api/infrastructure/cache/memory"
	memstore "marketplace-search-api/infrastructure/store/memory"
	"marketplace-search-api/pkg/config"
	"marketplace-search-api/pkg/featureflags"
)

const sampleCatalogue = "../config/catalog.sample.yaml"

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithQuietMode(), WithStore(DefaultMemoryStore()), WithCatalogFile(sampleCatalogue)}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func resultIDs(results []SearchResult) []string {
	ids := make([]string, len(results))
	for i := range results {
		ids[i] = results[i].ID()
	}
	return ids
}

func TestNewClient_RequiresStore(t *testing.T) {
	_, err := NewClient(WithQuietMode())
	if !errors.Is(err, ErrNoStore) {
		t.Errorf("Expected ErrNoStore, got %v", err)
	}
	if !IsConfigurationError(err) {
		t.Error("Expected a configuration error")
	}
}

func TestNewClient_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"store type", WithStoreOption(StoreOption{Type: "postgres"})},
		{"cache type", WithCacheOption(CacheOption{Type: "memcached"})},
		{"intent ttl", WithIntentTTL(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(WithQuietMode(), WithStore(DefaultMemoryStore()), tt.opt)
			if !IsConfigurationError(err) {
				t.Errorf("Expected configuration error, got %v", err)
			}
		})
	}
}

func TestNewClient_MissingCatalogue(t *testing.T) {
	_, err := NewClient(WithQuietMode(), WithStore(DefaultMemoryStore()), WithCatalogFile("missing.yaml"))
	if !IsValidationError(err) {
		t.Errorf("Expected validation error for missing catalogue, got %v", err)
	}
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	results, err := client.Search(ctx, "crm")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	ids := resultIDs(results)
	seen := make(map[string]bool)
	for _, id := range ids {
		seen[id] = true
	}
	for _, want := range []string{"sw-acme", "svc-setup", "sw-ledger"} {
		if !seen[want] {
			t.Errorf("Expected %s in results %v", want, ids)
		}
	}
	if seen["post-choosing-crm"] {
		t.Error("Listing search should not return articles")
	}
	// Title matches outrank the description-only match
	if ids[len(ids)-1] != "sw-ledger" {
		t.Errorf("Expected description match last, got %v", ids)
	}
}

func TestClient_SearchOptions(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	results, err := client.Search(ctx, "crm", WithTypes("software"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, r := range results {
		if r.Type != "software" {
			t.Errorf("Unexpected %s result %s", r.Type, r.ID())
		}
	}

	// Software listings have no broker type, so only services can match
	results, err = client.Search(ctx, "", WithFilter("brokerType", "Managed IT"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 1 || ids[0] != "svc-setup" {
		t.Errorf("Expected [svc-setup], got %v", ids)
	}
}

func TestClient_BlogSearch(t *testing.T) {
	client := newTestClient(t)

	results, err := client.BlogSearch(context.Background(), "crm", WithTypes("software"), WithFilter("author", "all"))
	if err != nil {
		t.Fatalf("BlogSearch failed: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 1 || ids[0] != "post-choosing-crm" {
		t.Errorf("Expected [post-choosing-crm], got %v", ids)
	}
}

func TestClient_SuggestIntents(t *testing.T) {
	client := newTestClient(t)

	items, err := client.SuggestIntents(context.Background(), "c")
	if err != nil {
		t.Fatalf("SuggestIntents failed: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "crm" {
		t.Errorf("Expected the CRM intent, got %v", items)
	}
}

func TestClient_Compare(t *testing.T) {
	client := newTestClient(t)

	comparison, err := client.Compare(context.Background(), []string{"sw-acme", "svc-setup", "sw-acme"})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(comparison.Listings) != 2 {
		t.Fatalf("Expected 2 listings, got %d", len(comparison.Listings))
	}
	if len(comparison.Groups) == 0 {
		t.Error("Expected feature groups")
	}
	for _, g := range comparison.Groups {
		for _, row := range g.Features {
			if len(row.Cells) != 2 {
				t.Errorf("Row %s has %d cells, want 2", row.FeatureID, len(row.Cells))
			}
		}
	}

	if _, err := client.Compare(context.Background(), []string{"sw-missing"}); !IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestClient_Reviews(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	review, err := client.SubmitReview(ctx, ReviewInput{ListingID: "sw-acme", Rating: 5, Title: "Great"})
	if err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if review.ID == "" {
		t.Error("Expected generated review id")
	}

	list, rating, err := client.Reviews(ctx, "sw-acme", 10)
	if err != nil {
		t.Fatalf("Reviews failed: %v", err)
	}
	if len(list) != 1 || rating.ReviewCount != 1 || rating.Average != 5 {
		t.Errorf("Unexpected reviews %v / %+v", list, rating)
	}

	if _, err := client.SubmitReview(ctx, ReviewInput{ListingID: "sw-missing", Rating: 3}); !IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := client.SubmitReview(ctx, ReviewInput{ListingID: "sw-acme", Rating: 9}); !IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestClient_SeedInvalidatesSearchCache(t *testing.T) {
	cache := memory.NewMemoryCache(0)
	client := newTestClient(t, WithCache(cache))
	ctx := context.Background()

	if _, err := client.Search(ctx, "crm"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if cache.Len() == 0 {
		t.Fatal("Expected the search to be cached")
	}

	if _, err := client.Seed(ctx, sampleCatalogue); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Expected cached searches to be dropped, %d left", cache.Len())
	}
}

func TestClient_FeatureFlags(t *testing.T) {
	cache := memory.NewMemoryCache(0)
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.IntentExpansion: true,
	})
	client := newTestClient(t, WithCache(cache), WithFeatureFlags(flags))

	results, err := client.Search(context.Background(), "crm")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("Expected results")
	}
	if cache.Len() != 0 {
		t.Errorf("Expected no cached searches with the cache flag off, got %d", cache.Len())
	}
}

func TestClient_Reset(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	results, err := client.Search(ctx, "crm")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty catalogue, got %v", resultIDs(results))
	}
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
	if _, err := client.Search(context.Background(), "crm"); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Expected ErrClientClosed, got %v", err)
	}
	if err := client.Ping(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Expected ErrClientClosed from Ping, got %v", err)
	}
}

func TestClient_SQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketplace.db")
	client, err := NewClient(
		WithQuietMode(),
		WithStoreOption(StoreOption{Type: StoreTypeSQLite, FilePath: path}),
		WithCatalogFile(sampleCatalogue),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	results, err := client.Search(ctx, "ledgerly")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if ids := resultIDs(results); len(ids) != 1 || ids[0] != "sw-ledger" {
		t.Errorf("Expected [sw-ledger], got %v", ids)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Type: "memory", SeedFile: sampleCatalogue},
		Cache: config.CacheConfig{Type: "memory", Memory: config.MemoryConfig{DefaultExpiration: 60}},
		Search: config.SearchConfig{
			PerTypeLimit: 10,
		},
	}

	client, err := NewClient(WithQuietMode(), FromConfig(cfg))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	if client.Cache() == nil {
		t.Error("Expected a memory cache")
	}
	results, err := client.Search(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("Expected the seeded catalogue to be searchable")
	}
}

func TestFromConfig_RedisFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Type: "memory"},
		Cache: config.CacheConfig{Type: "redis", Redis: config.RedisConfig{Address: "127.0.0.1:1"}},
	}

	client, err := NewClient(WithQuietMode(), FromConfig(cfg))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	if _, ok := client.Cache().(*memory.MemoryCache); !ok {
		t.Errorf("Expected memory cache fallback, got %T", client.Cache())
	}
}

func TestClient_Search_LargeCatalogueKeepsBestMatch(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	docs := []query.Document{{"_id": "cat-crm", "_type": "category", "key": "crm", "title": "CRM"}}
	for i := 0; i < 60; i++ {
		docs = append(docs, query.Document{
			"_id": fmt.Sprintf("sw-%02d", i), "_type": "software",
			"title": fmt.Sprintf("Connector %02d", i), "description": "Supports crm sync",
			"category": map[string]any{"_ref": "cat-crm"},
			"rating":   map[string]any{"average": 3.0, "reviewCount": 4.0},
		})
	}
	docs = append(docs, query.Document{
		"_id": "sw-acme", "_type": "software", "title": "Acme CRM Suite",
		"category": map[string]any{"_ref": "cat-crm"},
		"rating":   map[string]any{"average": 4.9, "reviewCount": 500.0},
	})
	if err := store.Put(ctx, docs...); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	client, err := NewClient(WithQuietMode(), WithStore(store))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	byQuery, err := client.Search(ctx, "crm")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	byCategory, err := client.Search(ctx, "", WithTypes(query.TypeSoftware), WithFilter("category", "CRM"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for name, results := range map[string][]SearchResult{"query": byQuery, "category": byCategory} {
		if len(results) != 50 {
			t.Errorf("%s: got %d results, want 50", name, len(results))
		}
		if len(results) == 0 || results[0].ID() != "sw-acme" {
			t.Errorf("%s: best listing missing from the top, got %v", name, resultIDs(results))
		}
	}
}
