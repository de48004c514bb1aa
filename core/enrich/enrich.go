// Package enrich turns raw alignment records into annotated hits: species
// from the subject title, lineage from the taxonomy, contaminant and
// informativeness flags from the classification rules, and a taxonomic
// score relative to the transcriptome's own lineage.
package enrich

import (
	"regexp"
	"strings"

	"simfilter/core/blast"
	"simfilter/core/classify"
	"simfilter/core/hit"
	"simfilter/core/taxonomy"
)

// InformativeBonus is added to the taxonomic score of informative hits.
const InformativeBonus = 4

// LineageDelimiter separates ranks in a lineage string.
const LineageDelimiter = "; "

var (
	ncbiSpecies    = regexp.MustCompile(`\[([^\[\]]+)\]`)
	uniprotSpecies = regexp.MustCompile(`OS=(.+?)(?:\s\S\S=|\s*$)`)
)

// Enricher is read-only after New and safe for concurrent use.
type Enricher struct {
	taxa         *taxonomy.Lookup
	rules        classify.Rules
	inputLineage string
}

// New returns an Enricher. inputLineage is the lineage of the organism the
// transcriptome came from; it may be empty, in which case only the
// informativeness bonus contributes to scores.
func New(taxa *taxonomy.Lookup, rules classify.Rules, inputLineage string) *Enricher {
	return &Enricher{taxa: taxa, rules: rules, inputLineage: inputLineage}
}

// InputLineage returns the lineage hits are scored against.
func (e *Enricher) InputLineage() string { return e.inputLineage }

// Enrich derives every annotation field of rec. frame is the query's
// frame-selection label and is carried as is.
func (e *Enricher) Enrich(rec blast.Record, frame string) hit.Hit {
	species := Species(rec.Title)
	lineage := e.taxa.Lineage(species)
	contam, kind := e.rules.Contaminant(lineage)
	informative := e.rules.Informative(rec.Title)

	return hit.Hit{
		Record:          rec,
		Species:         species,
		Lineage:         lineage,
		Contaminant:     contam,
		ContaminantType: kind,
		Informative:     informative,
		TaxScore:        e.Score(lineage, informative),
		Frame:           frame,
		Mode:            hit.PerDatabase,
	}
}

// Score is InformativeBonus for informative hits plus one for every rank of
// lineage found in the input lineage.
func (e *Enricher) Score(lineage string, informative bool) int {
	score := 0
	if informative {
		score += InformativeBonus
	}
	if lineage == "" || e.inputLineage == "" {
		return score
	}
	for _, rank := range strings.Split(lineage, LineageDelimiter) {
		rank = strings.TrimSpace(rank)
		if rank == "" {
			continue
		}
		if strings.Contains(e.inputLineage, rank) {
			score++
		}
	}
	return score
}

// Species extracts the organism name from a subject title. NCBI titles carry
// it in the last bracketed group ("... [Zea mays]"), UniProt titles in the
// OS= field ("... OS=Homo sapiens OX=9606"). Returns "" when neither matches.
func Species(title string) string {
	if m := ncbiSpecies.FindAllStringSubmatch(title, -1); len(m) > 0 {
		return m[len(m)-1][1]
	}
	if m := uniprotSpecies.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}
