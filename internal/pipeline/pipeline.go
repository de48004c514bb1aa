// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"simfilter/core/blast"
	"simfilter/core/enrich"
	"simfilter/core/hit"
	"simfilter/core/selector"
	"simfilter/core/stats"
	"simfilter/core/transcriptome"
	"simfilter/internal/logger"
	"simfilter/internal/metrics"
	"simfilter/internal/writers"
)

// CompiledDir is the result directory of the cross-database selection.
const CompiledDir = "compiled"

// Config controls a filter run.
type Config struct {
	Threads      int     // number of worker goroutines (>=1), capped by the database count
	EValue       float64 // per-database cutoff; hits above it are unselected
	Params       hit.Params
	ProcessedDir string // root of the per-database and compiled result directories
	Title        string // section title prefix, e.g. "Similarity Search - diamond"
}

// Inputs are the read-only, shared inputs of every worker.
type Inputs struct {
	Enricher *enrich.Enricher
	Queries  *transcriptome.Store
	Metrics  *metrics.Metrics // optional
}

// DatabaseResult is one database's selection.
type DatabaseResult struct {
	Path     string
	Best     selector.BestHits
	Counters selector.Counters
	Summary  stats.Summary
}

// Result is the outcome of Run.
type Result struct {
	Databases []DatabaseResult // in session order
	Compiled  selector.BestHits
	Summary   stats.Summary
}

// Summaries returns every report section: databases first, compiled last.
func (r Result) Summaries() []stats.Summary {
	out := make([]stats.Summary, 0, len(r.Databases)+1)
	for _, d := range r.Databases {
		out = append(out, d.Summary)
	}
	return append(out, r.Summary)
}

// Run filters every database of sess on a bounded worker pool, then compiles
// the per-database winners. It returns the first error encountered
// (including context cancellation); remaining workers stop between rows.
func Run(parent context.Context, sess *Session, cfg Config, in Inputs) (Result, error) {
	log := logger.FromContext(parent).With(zap.String("run_id", sess.RunID.String()))

	thr := cfg.Threads
	if thr < 1 {
		thr = 1
	}
	if n := len(sess.Databases); n < thr {
		thr = n
	}

	ctx, cancel := context.WithCancel(logger.ContextWithLogger(parent, log))
	defer cancel()

	dirs := resultDirs(cfg.ProcessedDir, sess.Databases)
	results := make([]DatabaseResult, len(sess.Databases))
	jobs := make(chan int, len(sess.Databases))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	// Workers
	wg.Add(thr)
	for w := 0; w < thr; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					res, err := filterDatabase(ctx, sess.Databases[i], dirs[i], cfg, in)
					if err != nil {
						fail(err)
						return
					}
					results[i] = res
				}
			}
		}()
	}

	for i := range sess.Databases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return Result{}, firstErr
	}
	if err := parent.Err(); err != nil {
		return Result{}, err
	}

	out := Result{Databases: results}
	var err error
	out.Compiled, out.Summary, err = compile(ctx, cfg, in, results)
	if err != nil {
		return Result{}, err
	}
	return out, nil
}

// resultDir names a database's result directory after its alignment file.
func resultDir(root, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	return filepath.Join(root, strings.TrimSuffix(base, filepath.Ext(base)))
}

// resultDirs assigns every database its own result directory. A name that
// is already taken, or is the compiled directory, gets a numeric suffix:
// nr, nr_2, nr_3.
func resultDirs(root string, paths []string) []string {
	taken := map[string]bool{filepath.Join(root, CompiledDir): true}
	out := make([]string, len(paths))
	for i, p := range paths {
		dir := resultDir(root, p)
		for n := 2; taken[dir]; n++ {
			dir = fmt.Sprintf("%s_%d", resultDir(root, p), n)
		}
		taken[dir] = true
		out[i] = dir
	}
	return out
}

func filterDatabase(ctx context.Context, path, dir string, cfg Config, in Inputs) (res DatabaseResult, err error) {
	start := time.Now()
	log := logger.FromContext(ctx).With(zap.String("database", path))
	log.Info("filtering alignment file")

	set, err := writers.OpenSet(dir, writers.SetOptions{Unselected: true})
	if err != nil {
		return res, fmt.Errorf("database %s: %w", path, err)
	}
	defer func() {
		if cerr := set.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("database %s: %w", path, cerr)
		}
	}()

	sel := selector.New(path, cfg.EValue, cfg.Params, set)
	err = blast.ForEachRecord(ctx, path, func(rec blast.Record) error {
		return sel.Add(in.Enricher.Enrich(rec, in.Queries.Frame(rec.QueryID)))
	})
	if err != nil {
		return res, fmt.Errorf("database %s: %w", path, err)
	}

	c := sel.Counters()
	best := sel.Best()
	log.Debug("selection done",
		zap.Int("rows", c.Total),
		zap.Int("best", len(best)),
		zap.Int("evalue_rejected", c.EValueRejected),
		zap.Int("outranked", c.Outranked))

	sum, err := stats.Aggregate(best, in.Queries.Queries(), set)
	if err != nil {
		return res, fmt.Errorf("database %s: %w", path, err)
	}
	sum.Title = cfg.Title
	sum.Source = path
	sum.TotalHits = c.Total
	sum.Unselected = c.Unselected()
	sum.Files = set.Files()
	if err := set.WriteTables(sum); err != nil {
		return res, fmt.Errorf("database %s: %w", path, err)
	}

	if in.Metrics != nil {
		in.Metrics.ObserveSelection(path, c)
		in.Metrics.ObserveSummary(path, sum)
		in.Metrics.ObserveStage("filter", start)
	}
	log.Info(fmt.Sprintf("kept %s best hits from %s rows", humanize.Comma(int64(len(best))), humanize.Comma(int64(c.Total))),
		zap.String("dir", set.Dir()),
		zap.Duration("took", time.Since(start)))

	return DatabaseResult{Path: sel.Database(), Best: best, Counters: c, Summary: sum}, nil
}

func compile(ctx context.Context, cfg Config, in Inputs, dbs []DatabaseResult) (best selector.BestHits, sum stats.Summary, err error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	sel := make([]selector.Database, len(dbs))
	candidates := 0
	for i, d := range dbs {
		sel[i] = selector.Database{Path: d.Path, Best: d.Best}
		candidates += len(d.Best)
	}
	best = selector.Compile(cfg.Params, sel)

	set, err := writers.OpenSet(filepath.Join(cfg.ProcessedDir, CompiledDir), writers.SetOptions{JSONL: true})
	if err != nil {
		return nil, sum, fmt.Errorf("compiled results: %w", err)
	}
	defer func() {
		if cerr := set.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("compiled results: %w", cerr)
		}
	}()

	sum, err = stats.Aggregate(best, in.Queries.Queries(), set)
	if err != nil {
		return nil, sum, fmt.Errorf("compiled results: %w", err)
	}
	sum.Title = "Compiled Results"
	sum.TotalHits = candidates
	sum.Files = set.Files()
	if err := set.WriteTables(sum); err != nil {
		return nil, sum, fmt.Errorf("compiled results: %w", err)
	}

	if in.Metrics != nil {
		in.Metrics.ObserveSummary(CompiledDir, sum)
		in.Metrics.ObserveStage("compile", start)
	}
	log.Info("compiled best hits",
		zap.Int("databases", len(dbs)),
		zap.Int("best", len(best)),
		zap.Int("contaminants", sum.Contaminants),
		zap.Int("no_hits", sum.NoHits))
	return best, sum, nil
}
