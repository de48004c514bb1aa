package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"simfilter/core/stats"
	"simfilter/internal/output"
	"simfilter/internal/writers"
)

// AppendReport appends the text report of summaries to the statistics file
// at path, preceded by a line identifying the run.
func AppendReport(path string, sess *Session, summaries []stats.Summary) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("statistics file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("statistics file: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "%sRun %s started %s\n", stats.SectionBreak, sess.RunID, sess.Started.Format(time.RFC3339))
	if err := writers.WriteReport(output.FormatText, bw, summaries); err != nil {
		return fmt.Errorf("statistics file: %w", err)
	}
	return bw.Flush()
}
