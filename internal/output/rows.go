// internal/output/rows.go
package output

import (
	"strconv"
	"strings"

	"simfilter/core/hit"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// FormatHitTSV returns the row for h in Columns order (no trailing newline).
// Tabs and newlines inside the title are replaced so the row stays one line.
func FormatHitTSV(h hit.Hit) string {
	title := strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(h.Title)
	f := []string{
		h.QueryID, h.SubjectID, ftoa(h.PercentIdentity),
		strconv.Itoa(h.AlignLength), strconv.Itoa(h.Mismatches), strconv.Itoa(h.GapOpens),
		strconv.Itoa(h.QueryStart), strconv.Itoa(h.QueryEnd),
		strconv.Itoa(h.SubjectStart), strconv.Itoa(h.SubjectEnd),
		ftoa(h.EValue), ftoa(h.Coverage), title, h.Species,
		yesNo(h.Informative), yesNo(h.Contaminant), h.ContaminantType,
		strconv.Itoa(h.TaxScore), h.Database, h.Frame,
	}
	return strings.Join(f, "\t")
}
