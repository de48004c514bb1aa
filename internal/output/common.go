package output

import "strings"

// Columns is the header of every hit TSV.
var Columns = []string{
	"Query Seq", "Subject Seq", "Percent Identical", "Alignment Length", "Mismatches",
	"Gap Openings", "Query Start", "Query End", "Subject Start", "Subject End",
	"E Value", "Coverage", "Description", "Species", "Informative", "Contaminant",
	"Contaminant Type", "Taxonomic Score", "Origin Database", "Frame",
}

// TSVHeader is the canonical header row for hit TSV outputs.
// Keep this as the single source of truth; all writers should use it.
var TSVHeader = strings.Join(Columns, "\t")

// Report and stream formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)
