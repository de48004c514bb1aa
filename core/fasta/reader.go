// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"simfilter/core/seqio"
)

// Record is one parsed FASTA entry.
type Record struct {
	ID     string // first whitespace-delimited header token
	Header string // full header line without '>'
	Seq    []byte
}

// StreamPath opens path (gzip and "-" supported) and streams its records.
func StreamPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := seqio.Open(path)
	if err != nil {
		return fmt.Errorf("fasta: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return Stream(ctx, rc, emit)
}

// Stream parses FASTA from r and calls emit once per record. Sequence lines
// are concatenated with surrounding whitespace removed. It returns promptly
// when ctx is done.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		header string
		have   bool
		seq    = make([]byte, 0, 1<<12)
	)
	flush := func() error {
		if !have {
			return nil
		}
		return emit(Record{ID: parseHeaderID([]byte(header)), Header: header, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			header = string(bytes.TrimSpace(line[1:]))
			have = true
			seq = seq[:0]
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
