package writers

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"simfilter/core/hit"
	"simfilter/core/selector"
	"simfilter/core/stats"
	"simfilter/core/transcriptome"
	"simfilter/internal/output"
)

// File names inside a result directory.
const (
	UnselectedTSV      = "unselected.tsv"
	BestHitsTSV        = "best_hits.tsv"
	BestHitsFASTA      = "best_hits.faa"
	BestHitsJSONL      = "best_hits.jsonl"
	ContamTSV          = "best_hits_contam.tsv"
	ContamFASTA        = "best_hits_contam.faa"
	NoHitsFASTA        = "no_hits.faa"
	ContaminantTypes   = "contaminant_types.tsv"
	ContaminantSpecies = "contaminant_species.tsv"
	SpeciesTable       = "species.tsv"
)

// SetOptions selects the optional streams of a Set.
type SetOptions struct {
	Unselected bool // per-database runs keep their losers
	JSONL      bool // also stream best hits as JSON lines
}

type file struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

func create(path string) (*file, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &file{path: path, f: f, w: bufio.NewWriterSize(f, 64<<10)}, nil
}

func (f *file) close() error {
	return errors.Join(f.w.Flush(), f.f.Close())
}

type stream struct {
	file *file
	in   chan<- hit.Hit
	done <-chan error
}

func startStream(path, format string) (*stream, error) {
	f, err := create(path)
	if err != nil {
		return nil, err
	}
	in, done := StartHitWriter(f.w, format, 256)
	return &stream{file: f, in: in, done: done}, nil
}

func (s *stream) close() error {
	close(s.in)
	return errors.Join(<-s.done, s.file.close())
}

// Set is the group of files one result section writes into. It implements
// selector.Sink for losers and stats.Outputs for the partitioned queries.
// A Set is used by one goroutine.
type Set struct {
	dir string

	unselected *stream
	jsonl      *stream
	bestTSV    *file
	bestFASTA  *file
	contamTSV  *file
	contamFA   *file
	noHits     *file
}

var (
	_ selector.Sink = (*Set)(nil)
	_ stats.Outputs = (*Set)(nil)
)

// OpenSet creates dir and every file of the set, truncating old results.
func OpenSet(dir string, o SetOptions) (s *Set, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("result dir: %w", err)
	}
	s = &Set{dir: dir}
	defer func() {
		if err != nil {
			_ = s.Close()
			s = nil
		}
	}()

	if o.Unselected {
		if s.unselected, err = startStream(filepath.Join(dir, UnselectedTSV), output.FormatTSV); err != nil {
			return s, err
		}
	}
	if o.JSONL {
		if s.jsonl, err = startStream(filepath.Join(dir, BestHitsJSONL), output.FormatJSONL); err != nil {
			return s, err
		}
	}
	for _, it := range []struct {
		dst  **file
		name string
		tsv  bool
	}{
		{&s.bestTSV, BestHitsTSV, true},
		{&s.bestFASTA, BestHitsFASTA, false},
		{&s.contamTSV, ContamTSV, true},
		{&s.contamFA, ContamFASTA, false},
		{&s.noHits, NoHitsFASTA, false},
	} {
		f, err := create(filepath.Join(dir, it.name))
		if err != nil {
			return s, err
		}
		*it.dst = f
		if it.tsv {
			if _, err := fmt.Fprintln(f.w, output.TSVHeader); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}

// Dir returns the set's directory.
func (s *Set) Dir() string { return s.dir }

// Files returns the report paths of the set.
func (s *Set) Files() stats.Files {
	fs := stats.Files{
		BestTSV:     s.bestTSV.path,
		BestFASTA:   s.bestFASTA.path,
		ContamTSV:   s.contamTSV.path,
		ContamFASTA: s.contamFA.path,
		NoHitFASTA:  s.noHits.path,
	}
	if s.unselected != nil {
		fs.Unselected = s.unselected.file.path
	}
	return fs
}

// Unselected implements selector.Sink.
func (s *Set) Unselected(h hit.Hit) error {
	if s.unselected == nil {
		return nil
	}
	s.unselected.in <- h
	return nil
}

// BestHit implements stats.Outputs.
func (s *Set) BestHit(q transcriptome.Query, h hit.Hit) error {
	if s.jsonl != nil {
		s.jsonl.in <- h
	}
	if _, err := fmt.Fprintln(s.bestTSV.w, output.FormatHitTSV(h)); err != nil {
		return err
	}
	return output.WriteFASTA(s.bestFASTA.w, q)
}

// Contaminant implements stats.Outputs.
func (s *Set) Contaminant(q transcriptome.Query, h hit.Hit) error {
	if _, err := fmt.Fprintln(s.contamTSV.w, output.FormatHitTSV(h)); err != nil {
		return err
	}
	return output.WriteFASTA(s.contamFA.w, q)
}

// NoHit implements stats.Outputs.
func (s *Set) NoHit(q transcriptome.Query) error {
	return output.WriteFASTA(s.noHits.w, q)
}

// WriteTables writes the top stats.TopN rows of each frequency table of sum
// next to the hit files.
func (s *Set) WriteTables(sum stats.Summary) error {
	for _, t := range []struct {
		name, label string
		table       stats.Table
	}{
		{ContaminantTypes, "Contaminant Type", sum.ContaminantTypes.Top(stats.TopN)},
		{ContaminantSpecies, "Species", sum.ContaminantSpecies.Top(stats.TopN)},
		{SpeciesTable, "Species", sum.Species.Top(stats.TopN)},
	} {
		f, err := create(filepath.Join(s.dir, t.name))
		if err != nil {
			return err
		}
		werr := output.WriteTable(f.w, t.label, t.table)
		if err := errors.Join(werr, f.close()); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

// Close flushes and closes every file; it returns all errors joined.
func (s *Set) Close() error {
	var errs []error
	for _, st := range []*stream{s.unselected, s.jsonl} {
		if st != nil {
			errs = append(errs, st.close())
		}
	}
	for _, f := range []*file{s.bestTSV, s.bestFASTA, s.contamTSV, s.contamFA, s.noHits} {
		if f != nil {
			errs = append(errs, f.close())
		}
	}
	return errors.Join(errs...)
}
