// internal/output/text.go
package output

import (
	"io"

	"simfilter/core/stats"
)

// WriteSummariesText renders every section with stats.WriteReport.
func WriteSummariesText(w io.Writer, list []stats.Summary) error {
	for _, s := range list {
		if err := stats.WriteReport(w, s); err != nil {
			return err
		}
	}
	return nil
}
