// ABOUTME: Command actions for the catalog tool
// ABOUTME: Each command resolves a local or remote backend and prints plain text results

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"marketplace-search-api/core/domain"
	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
	"marketplace-search-api/core/search"
	logruslogger "marketplace-search-api/infrastructure/logger/logrus"
	marketplace "marketplace-search-api/marketplace-lib"
	"marketplace-search-api/pkg/client"
)

const loggerKey = "logger"

// backend is what the commands need from either a local library client or
// a remote API
type backend interface {
	search.Searcher
	Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error)
	Compare(ctx context.Context, ids []string) (*domain.Comparison, error)
}

type localBackend struct {
	lib *marketplace.Client
}

func (b localBackend) Search(ctx context.Context, req search.Request) ([]domain.SearchResult, error) {
	return b.lib.Searcher().Search(ctx, req)
}

func (b localBackend) Suggest(ctx context.Context, prefix string) ([]domain.IntentSuggestion, error) {
	return b.lib.SuggestIntents(ctx, prefix)
}

func (b localBackend) Compare(ctx context.Context, ids []string) (*domain.Comparison, error) {
	return b.lib.Compare(ctx, ids)
}

func setupLogger(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	base := logrus.New()
	base.SetLevel(level)
	base.SetOutput(c.App.ErrWriter)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[loggerKey] = logruslogger.NewWithLogger(base)
	return nil
}

func appLogger(c *cli.Context) interfaces.Logger {
	if l, ok := c.App.Metadata[loggerKey].(interfaces.Logger); ok {
		return l
	}
	return marketplace.QuietLogger()
}

// openLibrary opens the local store named by the global flags
func openLibrary(c *cli.Context, catalogFile string) (*marketplace.Client, error) {
	opts := []marketplace.Option{
		marketplace.WithLogger(appLogger(c)),
		marketplace.WithStoreOption(marketplace.StoreOption{
			Type:     marketplace.StoreType(c.String("store")),
			FilePath: c.String("db"),
		}),
		marketplace.WithCacheOption(marketplace.CacheOption{Type: marketplace.CacheTypeNone}),
	}
	if catalogFile != "" {
		opts = append(opts, marketplace.WithCatalogFile(catalogFile))
	}
	return marketplace.NewClient(opts...)
}

func openBackend(c *cli.Context) (backend, func(), error) {
	if server := c.String("server"); server != "" {
		return client.New(server), func() {}, nil
	}
	lib, err := openLibrary(c, c.String("catalog"))
	if err != nil {
		return nil, nil, err
	}
	return localBackend{lib: lib}, func() { lib.Close() }, nil
}

func seedCommand(c *cli.Context) error {
	ctx := c.Context
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("catalogue file is required")
	}

	lib, err := openLibrary(c, "")
	if err != nil {
		return err
	}
	defer lib.Close()

	if c.Bool("reset") {
		if err := lib.Reset(ctx); err != nil {
			return err
		}
	}

	n, err := lib.Seed(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Seeded %d documents from %s\n", n, path)
	return nil
}

func searchRequest(c *cli.Context) (search.Request, error) {
	req := search.Request{
		Query: strings.Join(c.Args().Slice(), " "),
		Filters: query.Filters{
			"category":   c.String("category"),
			"brokerType": c.String("broker-type"),
		},
	}

	switch t := strings.ToLower(c.String("type")); t {
	case "", "all":
		req.Types = []string{query.TypeSoftware, query.TypeService}
	case query.TypeSoftware, query.TypeService, query.TypeArticle:
		req.Types = []string{t}
	default:
		return req, fmt.Errorf("unknown type %q", t)
	}
	return req, nil
}

func searchCommand(c *cli.Context) error {
	req, err := searchRequest(c)
	if err != nil {
		return err
	}

	b, closeFn, err := openBackend(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if c.Bool("interactive") {
		return interactiveSearch(c.Context, search.NewLiveSearch(b), req, c.App.Reader, c.App.Writer)
	}

	results, err := b.Search(c.Context, req)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, results)
	return nil
}

// interactiveSearch treats every input line as the next keystroke state of
// the query box
func interactiveSearch(ctx context.Context, live *search.LiveSearch, req search.Request, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		req.Query = strings.TrimSpace(scanner.Text())
		results, err := live.Query(ctx, req)
		if errors.Is(err, search.ErrSuperseded) {
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "> %s\n", req.Query)
		printResults(out, results)
	}
	return scanner.Err()
}

func printResults(w io.Writer, results []domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTYPE\tTITLE\tSCORE\tRATING\tMATCHED")
	for i := range results {
		r := &results[i]
		rating := "-"
		if r.Listing != nil && r.Rating().ReviewCount > 0 {
			rating = fmt.Sprintf("%.1f (%d)", r.Rating().Average, r.Rating().ReviewCount)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			i+1, r.ID(), r.Type, r.Title(), r.Score, rating, strings.Join(r.MatchedFields, ","))
	}
	tw.Flush()
}

func intentsCommand(c *cli.Context) error {
	b, closeFn, err := openBackend(c)
	if err != nil {
		return err
	}
	defer closeFn()

	items, err := b.Suggest(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Fprintf(c.App.Writer, "%s\t/%s\n", it.Title, it.Slug)
	}
	return nil
}

func compareCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one listing id is required")
	}

	b, closeFn, err := openBackend(c)
	if err != nil {
		return err
	}
	defer closeFn()

	comparison, err := b.Compare(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}
	printComparison(c.App.Writer, comparison)
	return nil
}

func printComparison(w io.Writer, comparison *domain.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "FEATURE")
	for _, l := range comparison.Listings {
		fmt.Fprintf(tw, "\t%s", l.Title)
	}
	fmt.Fprint(tw, "\n")

	fmt.Fprint(tw, "Marketplace score")
	for _, l := range comparison.Listings {
		fmt.Fprintf(tw, "\t%.1f", l.MarketplaceScore)
	}
	fmt.Fprint(tw, "\n")

	fmt.Fprint(tw, "Rating")
	for _, l := range comparison.Listings {
		fmt.Fprintf(tw, "\t%.1f (%d)", l.Rating.Average, l.Rating.ReviewCount)
	}
	fmt.Fprint(tw, "\n")

	for _, g := range comparison.Groups {
		fmt.Fprintf(tw, "[%s]\n", g.Title)
		for _, row := range g.Features {
			fmt.Fprintf(tw, "  %s", row.Title)
			for _, cell := range row.Cells {
				fmt.Fprintf(tw, "\t%s", cell.Availability)
			}
			fmt.Fprint(tw, "\n")
		}
	}
	tw.Flush()

	if len(comparison.Rejected) > 0 {
		fmt.Fprintf(w, "Not compared, limit is %d: %s\n", comparison.Limit, strings.Join(comparison.Rejected, ", "))
	}
}
