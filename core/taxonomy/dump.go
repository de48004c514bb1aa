// core/taxonomy/dump.go
package taxonomy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"simfilter/core/errs"
	"simfilter/core/seqio"
)

// DumpRow is one line of a taxonomy dump: sci_name<TAB>tax_id<TAB>lineage.
type DumpRow struct {
	Name  string
	Entry Entry
}

// ReadDump streams the rows of a taxonomy dump. Blank and '#' lines are
// skipped; a row with fewer than three columns is an error.
func ReadDump(ctx context.Context, r io.Reader, name string, visit func(DumpRow) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		if ln%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.SplitN(line, "\t", 3)
		if len(f) < 3 {
			return fmt.Errorf("%s:%d: %w: want 3 columns, got %d", name, ln, errs.ErrMalformed, len(f))
		}
		row := DumpRow{Name: f[0], Entry: Entry{TaxID: f[1], Lineage: f[2]}}
		if err := visit(row); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("taxonomy scan %s: %w", name, err)
	}
	return nil
}

// DumpLoader loads a Lookup straight from a dump file, without an index.
type DumpLoader struct {
	Path string
}

var _ Loader = DumpLoader{}

// Load implements Loader. Names that repeat, ignoring case, keep the last
// row, as the index does.
func (d DumpLoader) Load(ctx context.Context) (*Lookup, error) {
	fh, err := seqio.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy dump: %w", err)
	}
	defer func() { _ = fh.Close() }()

	m := make(map[string]Entry, 1<<16)
	err = ReadDump(ctx, fh, d.Path, func(r DumpRow) error {
		m[strings.ToLower(r.Name)] = r.Entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(m), nil
}
