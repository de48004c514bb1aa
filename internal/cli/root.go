// Package cli defines the simfilter command tree. Commands parse flags and
// configuration, then hand off to Handlers supplied by the app layer.
package cli

import (
	"context"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"simfilter/internal/config"
	"simfilter/internal/output"
	"simfilter/internal/version"
)

// IO are the streams a handler writes to.
type IO struct {
	Out io.Writer // report
	Err io.Writer // logs and diagnostics
}

// Handlers run the commands once their configuration is settled.
type Handlers struct {
	Filter        func(ctx context.Context, cfg config.Config, o *Options, s IO) error
	Search        func(ctx context.Context, cfg config.Config, o *Options, s IO) error
	BuildTaxonomy func(ctx context.Context, dump, index string, s IO) error
}

func streams(cmd *cobra.Command) IO {
	return IO{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(p cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := p(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// NewRootCommand builds the command tree around h.
func NewRootCommand(h Handlers) *cobra.Command {
	o := &Options{}
	root := &cobra.Command{
		Use:   "simfilter",
		Short: "Select best similarity search hits per transcript",
		Long: `simfilter runs a similarity search of a transcriptome against reference
databases and reduces the tabular alignments to one best hit per query:
first within each database, then across databases. Hits are annotated
with species, lineage, contaminant and informativeness flags, and each
pass is summarized in a statistics report.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("simfilter version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&o.ConfigFile, "config", "c", "", "YAML or TOML configuration file")
	pf.StringVarP(&o.OutDir, "out-dir", "o", config.DefaultOutDir, "output directory")
	pf.IntVarP(&o.Threads, "threads", "t", runtime.NumCPU(), "worker threads")
	pf.StringVar(&o.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&o.LogFormat, "log-format", "console", "log format: console|json")
	pf.StringVar(&o.ReportFormat, "format", output.FormatText, "report format on stdout: text|json")
	pf.BoolVarP(&o.Quiet, "quiet", "q", false, "do not print the report to stdout")

	root.AddCommand(
		newFilterCommand(o, h),
		newSearchCommand(o, h),
		newTaxonomyCommand(h),
		newVersionCommand(),
	)
	return root
}
