package search

import "sync/atomic"

// Sequencer hands out monotonically increasing query sequence numbers so a
// slow response for an old query can be told apart from the latest one
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues the next sequence number, which becomes the latest
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether n is the most recently issued number
func (s *Sequencer) IsLatest(n uint64) bool {
	return s.latest.Load() == n
}
