package output

import (
	"fmt"
	"io"

	"simfilter/core/stats"
)

// WriteTable writes a two-column frequency table with a header row.
func WriteTable(w io.Writer, label string, t stats.Table) error {
	if _, err := fmt.Fprintf(w, "%s\tCount\n", label); err != nil {
		return err
	}
	for _, c := range t {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Label, c.N); err != nil {
			return err
		}
	}
	return nil
}
