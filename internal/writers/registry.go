// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"simfilter/core/hit"
	"simfilter/core/stats"
)

// HitStreamFunc drains in into w. It must keep receiving until in is closed.
type HitStreamFunc func(w io.Writer, in <-chan hit.Hit) error

// ReportFunc renders summaries.
type ReportFunc func(w io.Writer, list []stats.Summary) error

// Writer registries (format → handler). Register in init() blocks.
var (
	hitStreams = map[string]HitStreamFunc{}
	reports    = map[string]ReportFunc{}
)

// Register helpers (idempotent last-wins)
func RegisterHitStream(format string, fn HitStreamFunc) { hitStreams[format] = fn }
func RegisterReport(format string, fn ReportFunc)       { reports[format] = fn }

// WriteReport dispatches to the report writer registered for format.
func WriteReport(format string, w io.Writer, list []stats.Summary) error {
	fn, ok := reports[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (have %v)", format, keys(reports))
	}
	return fn(w, list)
}

// ReportFormats lists registered report formats.
func ReportFormats() []string { return keys(reports) }

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
