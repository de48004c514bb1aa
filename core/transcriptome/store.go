// Package transcriptome holds the query sequences the alignments were run
// for, keyed by query id, with the per-query metadata the filter needs.
package transcriptome

import (
	"context"
	"fmt"
	"strings"

	"simfilter/core/fasta"
)

// FrameKey is the header token carrying the frame-selection label,
// e.g. ">g1.t1 frame=Complete".
const FrameKey = "frame="

// Query is one transcriptome sequence.
type Query struct {
	ID      string
	Header  string
	Seq     string
	Frame   string
	Protein bool
}

// FASTA renders q as a FASTA record without a trailing newline.
func (q Query) FASTA() string {
	return ">" + q.Header + "\n" + q.Seq
}

// Store is read-only after Load.
type Store struct {
	order []string
	byID  map[string]Query
}

// NewStore builds a store from qs, keeping their order. A later duplicate id
// replaces the earlier entry in place.
func NewStore(qs []Query) *Store {
	s := &Store{byID: make(map[string]Query, len(qs))}
	for _, q := range qs {
		if _, dup := s.byID[q.ID]; !dup {
			s.order = append(s.order, q.ID)
		}
		s.byID[q.ID] = q
	}
	return s
}

// Load reads a FASTA transcriptome.
func Load(ctx context.Context, path string) (*Store, error) {
	var qs []Query
	err := fasta.StreamPath(ctx, path, func(r fasta.Record) error {
		qs = append(qs, FromRecord(r))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transcriptome %s: %w", path, err)
	}
	return NewStore(qs), nil
}

// FromRecord converts a FASTA record, deriving frame and alphabet.
func FromRecord(r fasta.Record) Query {
	return Query{
		ID:      r.ID,
		Header:  r.Header,
		Seq:     string(r.Seq),
		Frame:   frameFromHeader(r.Header),
		Protein: IsProtein(r.Seq),
	}
}

// Len returns the number of queries.
func (s *Store) Len() int { return len(s.order) }

// Get returns the query with id.
func (s *Store) Get(id string) (Query, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// Frame returns the frame label for id, or "" when unknown.
func (s *Store) Frame(id string) string {
	return s.byID[id].Frame
}

// Queries returns every query in input order.
func (s *Store) Queries() []Query {
	out := make([]Query, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Protein reports whether every query looks like an amino acid sequence.
// An empty store is not protein.
func (s *Store) Protein() bool {
	if len(s.order) == 0 {
		return false
	}
	for _, id := range s.order {
		if !s.byID[id].Protein {
			return false
		}
	}
	return true
}

// IsProtein reports whether seq contains residues outside the nucleotide
// alphabet (ACGTUN, IUPAC ambiguity codes, gaps).
func IsProtein(seq []byte) bool {
	for _, c := range seq {
		switch c | 0x20 { // lowercase
		case 'a', 'c', 'g', 't', 'u', 'n', 'r', 'y', 'k', 'm', 's', 'w', 'b', 'd', 'h', 'v':
		case '-', '.', '*':
		default:
			return true
		}
	}
	return false
}

func frameFromHeader(h string) string {
	for _, tok := range strings.Fields(h) {
		if v, ok := strings.CutPrefix(tok, FrameKey); ok {
			return v
		}
	}
	return ""
}
