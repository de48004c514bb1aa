package aligner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"simfilter/core/errs"
	"simfilter/internal/logger"
)

// OutExt is the extension of tabular alignment files.
const OutExt = ".out"

// logSuffix marks captured tool output next to each alignment file.
const logSuffix = "_std"

// Options configure a search over every database.
type Options struct {
	Query     string
	Databases []string
	Dir       string // output directory
	Threads   int
	Coverage  float64
	Protein   bool
	Overwrite bool
	ExtraArgs []string
}

// Stem strips directories and up to two extensions: "trinity.fasta.faa" → "trinity".
func Stem(path string) string {
	base := filepath.Base(path)
	for i := 0; i < 2; i++ {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// OutputPath is where the result of searching query against database goes:
// <dir>/<mode>_<query stem>_<db stem>.out
func OutputPath(dir, mode, query, database string) string {
	return filepath.Join(dir, mode+"_"+Stem(query)+"_"+Stem(database)+OutExt)
}

type moder interface{ Mode(Request) string }

// Search runs b for every database and returns the output paths in database
// order. Without Overwrite, a complete set of earlier outputs is reused and
// nothing is run; a partial set is rerun in full.
func Search(ctx context.Context, b Backend, o Options) ([]string, error) {
	log := logger.FromContext(ctx).With(zap.String("aligner", b.Name()))

	if _, err := os.Stat(o.Query); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("transcriptome %s: %w", o.Query, errs.ErrNotFound)
	}

	reqs := make([]Request, len(o.Databases))
	for i, db := range o.Databases {
		req := Request{
			Query: o.Query, Database: db, Threads: o.Threads, Coverage: o.Coverage,
			Protein: o.Protein, ExtraArgs: o.ExtraArgs,
		}
		mode := b.Name()
		if m, ok := b.(moder); ok {
			mode = m.Mode(req)
		}
		req.Out = OutputPath(o.Dir, mode, o.Query, db)
		req.Log = strings.TrimSuffix(req.Out, OutExt) + logSuffix
		reqs[i] = req
	}
	paths := make([]string, len(reqs))
	for i, r := range reqs {
		paths[i] = r.Out
	}

	if o.Overwrite {
		for _, r := range reqs {
			_ = os.Remove(r.Out)
			_ = os.Remove(r.Log)
		}
	} else if allExist(paths) {
		log.Info("all alignment files found, skipping search", zap.Strings("paths", paths))
		return paths, nil
	}
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("search dir: %w", err)
	}

	for _, r := range reqs {
		start := time.Now()
		log.Info("searching database", zap.String("database", r.Database), zap.String("out", r.Out))
		if err := b.Search(ctx, r); err != nil {
			return nil, err
		}
		log.Info("search finished", zap.String("database", r.Database), zap.Duration("took", time.Since(start)))
	}
	return paths, nil
}

func allExist(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Discover lists the alignment files in dir, skipping captured tool output.
// An empty result is errs.ErrNoAlignments.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.Contains(name, logSuffix) || filepath.Ext(name) != OutExt {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("discover %s: %w", dir, errs.ErrNoAlignments)
	}
	sort.Strings(out)
	return out, nil
}
