// Package hit defines the annotated alignment hit and the ranking order
// used to pick a best hit per query.
package hit

import "simfilter/core/blast"

// Mode selects which ranking rules apply.
type Mode int

const (
	// PerDatabase compares hits from the same reference database; the
	// e-value gate applies.
	PerDatabase Mode = iota
	// CrossDatabase compares winners from different databases, whose
	// e-values are not comparable; the e-value gate is skipped.
	CrossDatabase
)

func (m Mode) String() string {
	switch m {
	case PerDatabase:
		return "per_database"
	case CrossDatabase:
		return "cross_database"
	default:
		return "unknown"
	}
}

// Hit is an alignment record plus everything derived from it at enrichment
// time. Only Mode, DatabaseHit and Frame change afterwards.
type Hit struct {
	blast.Record

	Species         string
	Lineage         string
	Contaminant     bool
	ContaminantType string
	Informative     bool
	TaxScore        int
	Frame           string

	Mode        Mode
	DatabaseHit bool // set once the hit has entered the compiled result
}
