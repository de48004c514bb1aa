package api

// CountV1 is one row of a frequency table.
type CountV1 struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SummaryV1 is the stable schema for one statistics section.
type SummaryV1 struct {
	Title        string `json:"title"`
	Source       string `json:"source,omitempty"`
	TotalHits    int    `json:"total_hits"`
	Unselected   *int   `json:"unselected,omitempty"`
	UniqueHits   int    `json:"unique_hits"`
	NoHits       int    `json:"no_hits"`
	Informative  int    `json:"informative"`
	Contaminants int    `json:"contaminants"`

	ContaminantTypes   []CountV1 `json:"contaminant_types"`
	ContaminantSpecies []CountV1 `json:"contaminant_species"`
	TopSpecies         []CountV1 `json:"top_species"`

	Files map[string]string `json:"files,omitempty"`
}
