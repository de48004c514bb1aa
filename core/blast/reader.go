// core/blast/reader.go
package blast

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"simfilter/core/seqio"
)

// ForEachRecord streams every row of the alignment file at path to visit.
// Blank lines and '#' comment lines are skipped. A malformed row stops the
// scan with a *ParseError carrying the path and line number. Cancellation via
// ctx is checked between rows.
func ForEachRecord(ctx context.Context, path string, visit func(Record) error) error {
	rc, err := seqio.Open(path)
	if err != nil {
		return fmt.Errorf("alignment file: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return ForEachRecordFrom(ctx, rc, path, visit)
}

// ForEachRecordFrom is ForEachRecord over an already open reader. database
// is stamped on every record and used in error messages.
func ForEachRecordFrom(ctx context.Context, r io.Reader, database string, visit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024 // long subject titles
	sc.Buffer(make([]byte, 64*1024), maxLine)

	ln := 0
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		rec, err := ParseRow(line, database)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = ln
			}
			return err
		}
		if err := visit(rec); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("alignment scan %s: %w", database, err)
	}
	return nil
}
