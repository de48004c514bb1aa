package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"simfilter/core/hit"
	"simfilter/internal/output"
)

func init() {
	RegisterHitStream(output.FormatTSV, streamTSV)
	RegisterHitStream(output.FormatJSONL, streamJSONL)
	RegisterReport(output.FormatText, output.WriteSummariesText)
	RegisterReport(output.FormatJSON, output.WriteSummariesJSON)
}

// StartHitWriter spins up a writer goroutine for hits in the given format.
// The error channel yields exactly one value after in is closed. On a write
// error the goroutine keeps draining in so senders never block.
func StartHitWriter(out io.Writer, format string, bufSize int) (chan<- hit.Hit, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan hit.Hit, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, ok := hitStreams[format]
		var err error
		if !ok {
			err = fmt.Errorf("unknown hit format %q (no writer registered)", format)
		} else {
			err = fn(out, in)
		}
		for range in {
		}
		errCh <- err
	}()

	return in, errCh
}

func streamTSV(w io.Writer, in <-chan hit.Hit) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	if _, err := fmt.Fprintln(bw, output.TSVHeader); err != nil {
		return err
	}
	for h := range in {
		if _, err := fmt.Fprintln(bw, output.FormatHitTSV(h)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// streamJSONL writes each hit as one JSON line (v1).
func streamJSONL(w io.Writer, in <-chan hit.Hit) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	enc := json.NewEncoder(bw)
	for h := range in {
		if err := enc.Encode(output.ToAPIHit(h)); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}
