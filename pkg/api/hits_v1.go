// pkg/api/hits_v1.go
package api

// HitV1 is the stable JSON/JSONL schema for a selected alignment hit.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type HitV1 struct {
	QueryID         string  `json:"query_id"`
	SubjectID       string  `json:"subject_id"`
	PercentIdentity float64 `json:"pident"`
	AlignLength     int     `json:"length"`
	Mismatches      int     `json:"mismatch"`
	GapOpens        int     `json:"gapopen"`
	QueryStart      int     `json:"qstart"`
	QueryEnd        int     `json:"qend"`
	SubjectStart    int     `json:"sstart"`
	SubjectEnd      int     `json:"send"`
	EValue          float64 `json:"evalue"`
	BitScore        float64 `json:"bitscore"`
	Coverage        float64 `json:"coverage"`
	Title           string  `json:"title"`
	Database        string  `json:"database"`

	Species         string `json:"species,omitempty"`
	Lineage         string `json:"lineage,omitempty"`
	Informative     bool   `json:"informative"`
	Contaminant     bool   `json:"contaminant"`
	ContaminantType string `json:"contaminant_type,omitempty"`
	TaxScore        int    `json:"tax_score"`
	Frame           string `json:"frame,omitempty"`
	Mode            string `json:"mode"` // "per_database" | "cross_database"
}
