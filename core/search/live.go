// ABOUTME: Live search drives search-as-you-type against any Searcher
// ABOUTME: Superseded queries are cancelled and their late results discarded

package search

import (
	"context"
	"errors"
	"sync"

	"marketplace-search-api/core/domain"
)

// ErrSuperseded is returned for a query that finished after a newer one was issued
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher runs one search request
type Searcher interface {
	Search(ctx context.Context, req Request) ([]domain.SearchResult, error)
}

// SearcherFunc adapts a function to the Searcher interface
type SearcherFunc func(ctx context.Context, req Request) ([]domain.SearchResult, error)

// Search calls f
func (f SearcherFunc) Search(ctx context.Context, req Request) ([]domain.SearchResult, error) {
	return f(ctx, req)
}

// Snapshot is the most recently applied live search state
type Snapshot struct {
	Seq     uint64
	Request Request
	Results []domain.SearchResult
	Err     error
}

// LiveSearch issues a query per keystroke. Each new query cancels the
// previous in-flight one, and results are applied only while their
// sequence number is still the latest.
type LiveSearch struct {
	searcher Searcher
	seq      Sequencer

	mu      sync.Mutex
	cancel  context.CancelFunc
	current Snapshot
}

// NewLiveSearch creates a live search over the given searcher
func NewLiveSearch(searcher Searcher) *LiveSearch {
	return &LiveSearch{searcher: searcher}
}

// Query runs req as the newest query. It returns ErrSuperseded when a newer
// query was issued before this one completed.
func (l *LiveSearch) Query(ctx context.Context, req Request) ([]domain.SearchResult, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	n := l.seq.Next()
	l.mu.Unlock()
	defer cancel()

	results, err := l.searcher.Search(ctx, req)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.seq.IsLatest(n) {
		return nil, ErrSuperseded
	}
	l.current = Snapshot{Seq: n, Request: req, Results: results, Err: err}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Current returns the last applied state
func (l *LiveSearch) Current() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Stop cancels any in-flight query
func (l *LiveSearch) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq.Next()
}
