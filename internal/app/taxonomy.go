package app

import (
	"context"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"simfilter/internal/cli"
	"simfilter/internal/logger"
	"simfilter/internal/taxstore"
)

func runBuildTaxonomy(ctx context.Context, dump, index string, s cli.IO) error {
	log, err := logger.New(s.Err, logger.FormatConsole, "info")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r, err := taxstore.Build(logger.ContextWithLogger(ctx, log), dump, index)
	if err != nil {
		return err
	}
	log.Info("taxonomy index built",
		zap.String("dump", dump),
		zap.String("index", index),
		zap.String("rows", humanize.Comma(int64(r.Read))),
		zap.String("species", humanize.Comma(int64(r.Total))),
	)
	return nil
}
