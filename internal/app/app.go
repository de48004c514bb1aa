// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"simfilter/internal/cli"
	"simfilter/internal/config"
	"simfilter/internal/logger"
	"simfilter/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// RunContext runs simfilter with argv and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCommand(cli.Handlers{
		Filter:        runFilter,
		Search:        runSearch,
		BuildTaxonomy: runBuildTaxonomy,
	})
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var (
		ue *cli.UsageError
		ee *cli.ExitError
	)
	switch {
	case errors.As(err, &ee):
		if ee.Err != nil {
			_, _ = fmt.Fprintf(stderr, "simfilter: %v\n", ee.Err)
		}
		return ee.Code
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(stderr, "simfilter: interrupted")
		return ExitCanceled
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.As(err, &ue):
		_, _ = fmt.Fprintf(stderr, "simfilter: %v\nRun 'simfilter --help' for usage.\n", err)
		return ExitUsage
	default:
		_, _ = fmt.Fprintf(stderr, "simfilter: %v\n", err)
		return ExitRuntime
	}
}

// withLogger attaches the configured logger to ctx. The caller syncs it.
func withLogger(ctx context.Context, cfg config.Config, stderr io.Writer) (context.Context, *zap.Logger, error) {
	log, err := logger.New(stderr, cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return ctx, nil, &cli.UsageError{Err: err}
	}
	return logger.ContextWithLogger(ctx, log), log, nil
}
