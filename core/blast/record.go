// core/blast/record.go
package blast

import (
	"fmt"
	"strconv"
	"strings"

	"simfilter/core/errs"
)

// NumColumns is the column count of the tabular format requested from the aligner:
// qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore qcovhsp stitle
const NumColumns = 14

// OutputFormat lists the tabular fields in the order ParseRow expects them.
var OutputFormat = []string{
	"qseqid", "sseqid", "pident", "length", "mismatch", "gapopen",
	"qstart", "qend", "sstart", "send", "evalue", "bitscore", "qcovhsp", "stitle",
}

// Record is one alignment row. It is never modified after parsing.
type Record struct {
	QueryID         string
	SubjectID       string
	PercentIdentity float64
	AlignLength     int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	SubjectStart    int
	SubjectEnd      int
	EValue          float64
	BitScore        float64
	Coverage        float64
	Title           string
	Database        string // path of the alignment file the row came from
}

// ParseError reports a structurally invalid row.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRow parses one tab-separated row. The title is the last column and may
// itself contain tabs. Fields are trimmed of surrounding spaces.
func ParseRow(line, database string) (Record, error) {
	f := strings.SplitN(line, "\t", NumColumns)
	if len(f) < NumColumns {
		return Record{}, &ParseError{Path: database, Err: fmt.Errorf("%w: want %d columns, got %d", errs.ErrMalformed, NumColumns, len(f))}
	}
	for i := range f {
		f[i] = strings.Trim(f[i], " ")
	}

	r := Record{
		QueryID:   f[0],
		SubjectID: f[1],
		Title:     f[13],
		Database:  database,
	}
	if r.QueryID == "" {
		return Record{}, &ParseError{Path: database, Column: OutputFormat[0], Err: fmt.Errorf("%w: empty query id", errs.ErrMalformed)}
	}

	floats := []struct {
		idx int
		dst *float64
	}{
		{2, &r.PercentIdentity}, {10, &r.EValue}, {11, &r.BitScore}, {12, &r.Coverage},
	}
	for _, fl := range floats {
		v, err := strconv.ParseFloat(f[fl.idx], 64)
		if err != nil {
			return Record{}, &ParseError{Path: database, Column: OutputFormat[fl.idx], Err: fmt.Errorf("%w: %q", errs.ErrMalformed, f[fl.idx])}
		}
		*fl.dst = v
	}
	if r.EValue < 0 {
		return Record{}, &ParseError{Path: database, Column: OutputFormat[10], Err: fmt.Errorf("%w: negative e-value %q", errs.ErrMalformed, f[10])}
	}

	ints := []struct {
		idx int
		dst *int
	}{
		{3, &r.AlignLength}, {4, &r.Mismatches}, {5, &r.GapOpens},
		{6, &r.QueryStart}, {7, &r.QueryEnd}, {8, &r.SubjectStart}, {9, &r.SubjectEnd},
	}
	for _, in := range ints {
		v, err := strconv.Atoi(f[in.idx])
		if err != nil {
			return Record{}, &ParseError{Path: database, Column: OutputFormat[in.idx], Err: fmt.Errorf("%w: %q", errs.ErrMalformed, f[in.idx])}
		}
		*in.dst = v
	}
	return r, nil
}
