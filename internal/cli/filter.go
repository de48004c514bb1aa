package cli

import (
	"github.com/spf13/cobra"

	"simfilter/internal/cliutil"
	"simfilter/internal/config"
)

func newFilterCommand(o *Options, h Handlers) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter [alignment files...]",
		Short: "Select best hits from tabular alignment files",
		Long: `Reads DIAMOND/BLAST tabular output (outfmt 6 with qcovhsp and stitle) for
every reference database, keeps one best hit per query and database, then
compiles the overall best hit per query. Without alignment files, the .out
files in <out-dir>/similarity_search are used.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.Config(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				paths, err := cliutil.ExpandGlobs(args)
				if err != nil {
					return &UsageError{Err: err}
				}
				cfg.Alignments = append(cfg.Alignments, paths...)
			}
			if err := cfg.RequireFilter(); err != nil {
				return &UsageError{Err: err}
			}
			return h.Filter(cmd.Context(), cfg, o, streams(cmd))
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.Taxonomy, "taxonomy", "", "taxonomy index (.db) or dump (name<TAB>taxid<TAB>lineage) [*]")
	f.StringVar(&o.Transcriptome, "transcriptome", "", "transcriptome FASTA the alignments were run for [*]")
	f.StringSliceVarP(&o.Alignments, "alignment", "a", nil, "alignment file (repeatable, globs allowed)")
	f.StringVar(&o.Species, "species", "", "source organism as genus_species, e.g. Zea_mays")
	f.StringSliceVar(&o.Contaminants, "contam", nil, "contaminant lineage keywords (repeatable or comma-separated)")
	f.StringSliceVar(&o.Uninformative, "uninformative", nil, "uninformative title phrases (replaces the built-in list)")
	f.StringVar(&o.InternalFrame, "internal-frame", "Internal", "frame label that disables the coverage rule")
	f.Float64VarP(&o.EValue, "evalue", "e", config.DefaultEValue, "e-value cutoff")
	f.StringVar(&o.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	f.IntVar(&o.NoMatchExitCode, "no-match-exit-code", config.DefaultNoMatchExitCode, "exit code when no query has a best hit")
	return cmd
}
