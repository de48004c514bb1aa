// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"simfilter/core/hit"
	"simfilter/core/stats"
	"simfilter/pkg/api"
)

// ToAPIHit converts a domain Hit to the stable wire schema (v1).
func ToAPIHit(h hit.Hit) api.HitV1 {
	return api.HitV1{
		QueryID:         h.QueryID,
		SubjectID:       h.SubjectID,
		PercentIdentity: h.PercentIdentity,
		AlignLength:     h.AlignLength,
		Mismatches:      h.Mismatches,
		GapOpens:        h.GapOpens,
		QueryStart:      h.QueryStart,
		QueryEnd:        h.QueryEnd,
		SubjectStart:    h.SubjectStart,
		SubjectEnd:      h.SubjectEnd,
		EValue:          h.EValue,
		BitScore:        h.BitScore,
		Coverage:        h.Coverage,
		Title:           h.Title,
		Database:        h.Database,
		Species:         h.Species,
		Lineage:         h.Lineage,
		Informative:     h.Informative,
		Contaminant:     h.Contaminant,
		ContaminantType: h.ContaminantType,
		TaxScore:        h.TaxScore,
		Frame:           h.Frame,
		Mode:            h.Mode.String(),
	}
}

func toAPICounts(t stats.Table) []api.CountV1 {
	out := make([]api.CountV1, 0, len(t))
	for _, c := range t {
		out = append(out, api.CountV1{Label: c.Label, Count: c.N})
	}
	return out
}

// ToAPISummary converts a statistics section. Every list is cut to
// stats.TopN like the text report.
func ToAPISummary(s stats.Summary) api.SummaryV1 {
	v := api.SummaryV1{
		Title:              s.Title,
		Source:             s.Source,
		TotalHits:          s.TotalHits,
		UniqueHits:         s.Unique,
		NoHits:             s.NoHits,
		Informative:        s.Informative,
		Contaminants:       s.Contaminants,
		ContaminantTypes:   toAPICounts(s.ContaminantTypes.Top(stats.TopN)),
		ContaminantSpecies: toAPICounts(s.ContaminantSpecies.Top(stats.TopN)),
		TopSpecies:         toAPICounts(s.Species.Top(stats.TopN)),
	}
	if s.Unselected >= 0 {
		n := s.Unselected
		v.Unselected = &n
	}
	files := map[string]string{
		"unselected":   s.Files.Unselected,
		"best_tsv":     s.Files.BestTSV,
		"best_fasta":   s.Files.BestFASTA,
		"contam_tsv":   s.Files.ContamTSV,
		"contam_fasta": s.Files.ContamFASTA,
		"no_hit_fasta": s.Files.NoHitFASTA,
	}
	for k, p := range files {
		if p == "" {
			delete(files, k)
		}
	}
	if len(files) > 0 {
		v.Files = files
	}
	return v
}

// WriteSummariesJSON writes all sections as one indented JSON array.
func WriteSummariesJSON(w io.Writer, list []stats.Summary) error {
	out := make([]api.SummaryV1, 0, len(list))
	for _, s := range list {
		out = append(out, ToAPISummary(s))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
