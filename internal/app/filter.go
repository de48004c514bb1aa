package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"simfilter/core/classify"
	"simfilter/core/enrich"
	"simfilter/core/hit"
	"simfilter/core/taxonomy"
	"simfilter/core/transcriptome"
	"simfilter/internal/aligner"
	"simfilter/internal/cli"
	"simfilter/internal/config"
	"simfilter/internal/metrics"
	"simfilter/internal/pipeline"
	"simfilter/internal/taxstore"
	"simfilter/internal/writers"
)

func runFilter(ctx context.Context, cfg config.Config, o *cli.Options, s cli.IO) error {
	ctx, log, err := withLogger(ctx, cfg, s.Err)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	paths := cfg.Alignments
	if len(paths) == 0 {
		if paths, err = aligner.Discover(cfg.SearchDir()); err != nil {
			return err
		}
	}

	m := metrics.New()
	start := time.Now()
	taxa, err := taxstore.NewLoader(cfg.Taxonomy).Load(ctx)
	if err != nil {
		return err
	}
	m.ObserveStage("taxonomy", start)
	log.Info("taxonomy loaded", zap.String("path", cfg.Taxonomy), zap.String("entries", humanize.Comma(int64(taxa.Len()))))

	start = time.Now()
	queries, err := transcriptome.Load(ctx, cfg.Transcriptome)
	if err != nil {
		return err
	}
	m.ObserveStage("transcriptome", start)
	log.Info("transcriptome loaded", zap.String("path", cfg.Transcriptome), zap.String("queries", humanize.Comma(int64(queries.Len()))))

	uninformative := cfg.Uninformative
	if len(uninformative) == 0 {
		uninformative = classify.DefaultUninformative
	}
	rules := classify.NewRules(cfg.Contaminants, uninformative)

	var lineage string
	if cfg.Species != "" {
		lineage = taxa.Lineage(taxonomy.NormalizeSpecies(cfg.Species))
		if lineage == "" {
			log.Warn("source species not found in taxonomy, scoring informativeness only", zap.String("species", cfg.Species))
		}
	}

	enricher := enrich.New(taxa, rules, lineage)
	log.Info("filter settings",
		zap.String("input_lineage", enricher.InputLineage()),
		zap.Strings("contaminants", rules.Contaminants()),
		zap.Int("uninformative_phrases", len(rules.Uninformative())),
		zap.Float64("evalue", cfg.EValue))

	sess := pipeline.NewSession(paths)
	if dropped := len(paths) - len(sess.Databases); dropped > 0 {
		log.Warn("repeated alignment files ignored", zap.Int("count", dropped))
	}
	res, err := pipeline.Run(ctx, sess, pipeline.Config{
		Threads: cfg.Threads,
		EValue:  cfg.EValue,
		Params: hit.Params{
			EValueGate:    hit.DefaultEValueGate,
			CoverageDelta: hit.DefaultCoverageDelta,
			InternalFrame: cfg.InternalFrame,
		},
		ProcessedDir: cfg.ProcessedDir(),
		Title:        "Similarity Search - " + cfg.Aligner.Backend,
	}, pipeline.Inputs{
		Enricher: enricher,
		Queries:  queries,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	summaries := res.Summaries()
	if err := pipeline.AppendReport(cfg.StatisticsFile(), sess, summaries); err != nil {
		return err
	}
	if !o.Quiet {
		if err := writers.WriteReport(o.ReportFormat, s.Out, summaries); err != nil {
			return err
		}
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if len(res.Compiled) == 0 && *cfg.NoMatchExitCode != 0 {
		return &cli.ExitError{
			Code: *cfg.NoMatchExitCode,
			Err:  errors.New("no query has a best hit"),
		}
	}
	return nil
}
