// Package selector reduces annotated hits to one best hit per query: first
// within a single reference database (Selector), then across databases
// (Compile).
package selector

import (
	"sort"

	"simfilter/core/hit"
)

// BestHits maps query id to its current winning hit.
type BestHits map[string]hit.Hit

// QueryIDs returns the keys of b in ascending order.
func (b BestHits) QueryIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sink receives every hit that does not end up in the best-hit map.
type Sink interface {
	Unselected(h hit.Hit) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(hit.Hit) error

// Unselected implements Sink.
func (f SinkFunc) Unselected(h hit.Hit) error { return f(h) }

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(hit.Hit) error { return nil })

// Counters account for every row a Selector has seen.
type Counters struct {
	Total          int // rows offered to Add
	EValueRejected int // rejected by the e-value cutoff
	Outranked      int // lost a comparison, incumbent or challenger
}

// Unselected is the number of rows written to the sink.
func (c Counters) Unselected() int { return c.EValueRejected + c.Outranked }

// Selector picks the best hit per query for one reference database. It is
// not safe for concurrent use; each database gets its own Selector.
type Selector struct {
	database string
	cutoff   float64
	params   hit.Params
	sink     Sink

	best   BestHits
	counts Counters
}

// New returns a Selector for database. Hits with an e-value above cutoff are
// rejected before ranking. A nil sink discards losers.
func New(database string, cutoff float64, params hit.Params, sink Sink) *Selector {
	if sink == nil {
		sink = Discard
	}
	return &Selector{
		database: database,
		cutoff:   cutoff,
		params:   params,
		sink:     sink,
		best:     make(BestHits, 1<<10),
	}
}

// Database returns the database path this selector was created for.
func (s *Selector) Database() string { return s.database }

// Add offers one enriched hit. The loser of any comparison, or a hit above
// the cutoff, goes to the sink before Add returns.
func (s *Selector) Add(h hit.Hit) error {
	s.counts.Total++
	h.Mode = hit.PerDatabase

	if h.EValue > s.cutoff {
		s.counts.EValueRejected++
		return s.sink.Unselected(h)
	}

	cur, ok := s.best[h.QueryID]
	if !ok {
		s.best[h.QueryID] = h
		return nil
	}
	s.counts.Outranked++
	if s.params.Better(hit.PerDatabase, h, cur) {
		s.best[h.QueryID] = h
		return s.sink.Unselected(cur)
	}
	return s.sink.Unselected(h)
}

// Best returns the best-hit map. The map is owned by the caller afterwards;
// the Selector must not be used again.
func (s *Selector) Best() BestHits { return s.best }

// Counters returns the running counters.
func (s *Selector) Counters() Counters { return s.counts }
