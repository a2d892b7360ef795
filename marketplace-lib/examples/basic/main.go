// ABOUTME: Basic example showing catalogue search and comparison with the marketplace library
// ABOUTME: Seeds the sample catalogue into memory and prints search, intent and comparison output

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	marketplace "marketplace-search-api/marketplace-lib"
)

func main() {
	catalogue := "config/catalog.sample.yaml"
	if len(os.Args) > 1 {
		catalogue = os.Args[1]
	}

	// Example 1: Create a client with an in-memory store and cache
	client, err := marketplace.NewClient(
		marketplace.WithDefaultDependencies(),
		marketplace.WithCatalogFile(catalogue),
	)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Example 2: Search listings
	fmt.Println("=== Searching Listings ===")
	results, err := client.Search(ctx, "crm")
	if err != nil {
		log.Printf("Error searching: %v\n", err)
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		fmt.Printf("- %s (%s, score %.2f, matched %v)\n", r.Title(), r.Type, r.Score, r.MatchedFields)
		ids = append(ids, r.ID())
	}

	// Example 3: Narrow by type and filter
	fmt.Println("\n=== Managed Services Only ===")
	services, err := client.Search(ctx, "",
		marketplace.WithTypes("service"),
		marketplace.WithFilter("brokerType", "managed"),
	)
	if err != nil {
		log.Printf("Error searching: %v\n", err)
	}
	for _, r := range services {
		fmt.Printf("- %s\n", r.Title())
	}

	// Example 4: Autocomplete
	fmt.Println("\n=== Intent Suggestions ===")
	intents, err := client.SuggestIntents(ctx, "c")
	if err != nil {
		log.Printf("Error suggesting: %v\n", err)
	}
	for _, it := range intents {
		fmt.Printf("- %s (/%s)\n", it.Title, it.Slug)
	}

	// Example 5: Compare the top results
	fmt.Println("\n=== Comparison ===")
	if len(ids) == 0 {
		return
	}
	comparison, err := client.Compare(ctx, ids)
	if err != nil {
		log.Printf("Error comparing: %v\n", err)
		return
	}
	for _, l := range comparison.Listings {
		fmt.Printf("%-24s score %.1f\n", l.Title, l.MarketplaceScore)
	}
	if len(comparison.Rejected) > 0 {
		fmt.Printf("Not compared (limit %d): %v\n", comparison.Limit, comparison.Rejected)
	}
	for _, g := range comparison.Groups {
		fmt.Printf("\n[%s]\n", g.Title)
		for _, row := range g.Features {
			fmt.Printf("  %-20s", row.Title)
			for _, cell := range row.Cells {
				fmt.Printf(" %-12s", cell.Availability)
			}
			fmt.Println()
		}
	}
}
