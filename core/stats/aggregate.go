// Package stats partitions a best-hit map against the full set of queries
// and summarizes it: hit/no-hit/contaminant counts, informativeness, and
// frequency tables by contaminant keyword and species.
package stats

import (
	"simfilter/core/hit"
	"simfilter/core/selector"
	"simfilter/core/transcriptome"
)

// UnknownSpecies labels hits whose title carried no organism name.
const UnknownSpecies = "unknown"

// Outputs receives the partitioned queries. Best hits include
// contaminants; Contaminant is called in addition to BestHit for those.
type Outputs interface {
	BestHit(q transcriptome.Query, h hit.Hit) error
	Contaminant(q transcriptome.Query, h hit.Hit) error
	NoHit(q transcriptome.Query) error
}

// Files are the paths a summary refers to in its report. Empty paths are
// left out of the rendered text.
type Files struct {
	Unselected  string
	BestTSV     string
	BestFASTA   string
	ContamTSV   string
	ContamFASTA string
	NoHitFASTA  string
}

// Summary holds the figures for one report section.
type Summary struct {
	Title  string
	Source string

	TotalHits    int // alignment rows processed
	Unselected   int // rows written to the unselected stream; -1 when not applicable
	Unique       int
	NoHits       int
	Informative  int
	Contaminants int

	ContaminantTypes   Table
	ContaminantSpecies Table
	Species            Table

	Files Files
}

// Clean is the number of non-contaminant best hits.
func (s Summary) Clean() int { return s.Unique - s.Contaminants }

// Aggregate walks queries in order and routes each one to out: no hit, best
// hit, and additionally contaminant. Best hits whose query is missing from
// queries are still counted and written, after the known queries, in query
// id order.
func Aggregate(best selector.BestHits, queries []transcriptome.Query, out Outputs) (Summary, error) {
	s := Summary{Unselected: -1}
	types := map[string]int{}
	contamSpecies := map[string]int{}
	species := map[string]int{}

	visit := func(q transcriptome.Query, h hit.Hit) error {
		s.Unique++
		sp := h.Species
		if sp == "" {
			sp = UnknownSpecies
		}
		if h.Contaminant {
			s.Contaminants++
			types[h.ContaminantType]++
			contamSpecies[sp]++
			if err := out.Contaminant(q, h); err != nil {
				return err
			}
		} else {
			species[sp]++
		}
		if h.Informative {
			s.Informative++
		}
		return out.BestHit(q, h)
	}

	seen := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		seen[q.ID] = struct{}{}
		h, ok := best[q.ID]
		if !ok {
			s.NoHits++
			if err := out.NoHit(q); err != nil {
				return s, err
			}
			continue
		}
		if err := visit(q, h); err != nil {
			return s, err
		}
	}
	for _, id := range best.QueryIDs() {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := visit(transcriptome.Query{ID: id, Header: id}, best[id]); err != nil {
			return s, err
		}
	}

	s.ContaminantTypes = Rank(types)
	s.ContaminantSpecies = Rank(contamSpecies)
	s.Species = Rank(species)
	return s, nil
}

// Discard is an Outputs that writes nothing.
var Discard Outputs = discard{}

type discard struct{}

func (discard) BestHit(transcriptome.Query, hit.Hit) error     { return nil }
func (discard) Contaminant(transcriptome.Query, hit.Hit) error { return nil }
func (discard) NoHit(transcriptome.Query) error                { return nil }
