// core/stats/report.go
package stats

import (
	"bufio"
	"fmt"
	"io"
)

// SectionBreak separates report sections.
const SectionBreak = "------------------------------------------------------\n"

// WriteReport renders s as the human-readable statistics block. Percentages
// use two decimals; an empty category renders 0.00%.
func WriteReport(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)
	p := func(format string, a ...any) { _, _ = fmt.Fprintf(bw, format, a...) }
	file := func(indent, label, path string) {
		if path != "" {
			p("%s%s: %s\n", indent, label, path)
		}
	}

	if s.Title != "" {
		p("%s%s\n%s", SectionBreak, s.Title, SectionBreak)
	}
	if s.Source != "" {
		p("Statistics of file located at: %s\n", s.Source)
	}
	if s.Unselected >= 0 {
		p("\tUnselected results: %d\n", s.Unselected)
		file("\t\t", "Written to", s.Files.Unselected)
	}
	p("\tTotal hits: %d\n", s.TotalHits)
	p("\tUnique hits: %d\n", s.Unique)
	file("\t\t", "Best fasta hits written to", s.Files.BestFASTA)
	file("\t\t", "Best tsv hits written to", s.Files.BestTSV)
	p("\tSequences that did not hit: %d\n", s.NoHits)
	file("\t\t", "Written to", s.Files.NoHitFASTA)
	p("\tInformative hits: %d (%.2f%%)\n", s.Informative, Percent(s.Informative, s.Unique))
	p("\tContaminants: %d (%.2f%%)\n", s.Contaminants, Percent(s.Contaminants, s.Unique))
	file("\t\t", "Fasta contaminants written to", s.Files.ContamFASTA)
	file("\t\t", "Tsv contaminants written to", s.Files.ContamTSV)

	if s.Contaminants > 0 {
		p("\t\tFlagged contaminants (all %% based on total contaminants):\n")
		for _, c := range s.ContaminantTypes.Top(TopN) {
			p("\t\t\t%s: %d (%.2f%%)\n", c.Label, c.N, Percent(c.N, s.Contaminants))
		}
		p("\t\tTop %d contaminants by species:\n", TopN)
		for i, c := range s.ContaminantSpecies.Top(TopN) {
			p("\t\t\t%d)%s: %d (%.2f%%)\n", i+1, c.Label, c.N, Percent(c.N, s.Contaminants))
		}
	}
	p("\tTop %d species:\n", TopN)
	for i, c := range s.Species.Top(TopN) {
		p("\t\t%d)%s: %d (%.2f%%)\n", i+1, c.Label, c.N, Percent(c.N, s.Clean()))
	}
	return bw.Flush()
}
