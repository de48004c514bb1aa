package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"simfilter/core/transcriptome"
	"simfilter/internal/aligner"
	"simfilter/internal/cli"
	"simfilter/internal/config"
)

func runSearch(ctx context.Context, cfg config.Config, o *cli.Options, s cli.IO) error {
	ctx, log, err := withLogger(ctx, cfg, s.Err)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b, err := aligner.New(cfg.Aligner.Backend, cfg.Aligner.Exe)
	if err != nil {
		return &cli.UsageError{Err: err}
	}

	protein := cfg.Protein
	if !protein {
		queries, err := transcriptome.Load(ctx, cfg.Transcriptome)
		if err != nil {
			return err
		}
		protein = queries.Protein()
	}

	paths, err := aligner.Search(ctx, b, aligner.Options{
		Query:     cfg.Transcriptome,
		Databases: cfg.Databases,
		Dir:       cfg.SearchDir(),
		Threads:   cfg.Threads,
		Coverage:  cfg.Coverage,
		Protein:   protein,
		Overwrite: cfg.Aligner.Overwrite,
		ExtraArgs: cfg.Aligner.ExtraArgs,
	})
	if err != nil {
		return err
	}
	log.Info("similarity search complete", zap.String("backend", b.Name()), zap.Int("outputs", len(paths)))

	if o.Quiet {
		return nil
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(s.Out, p); err != nil {
			return err
		}
	}
	return nil
}
