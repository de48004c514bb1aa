package cli

import (
	"github.com/spf13/cobra"

	"simfilter/internal/config"
)

func newSearchCommand(o *Options, h Handlers) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the similarity search against every database",
		Long: `Runs the aligner (DIAMOND by default) for the transcriptome against each
database and writes <mode>_<transcriptome>_<database>.out files to
<out-dir>/similarity_search. Existing outputs are reused unless --overwrite.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.Config(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireSearch(); err != nil {
				return &UsageError{Err: err}
			}
			return h.Search(cmd.Context(), cfg, o, streams(cmd))
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.Transcriptome, "transcriptome", "", "transcriptome FASTA [*]")
	f.StringSliceVarP(&o.Databases, "database", "d", nil, "aligner database (repeatable) [*]")
	f.Float64Var(&o.Coverage, "coverage", config.DefaultCoverage, "minimum query coverage (%)")
	f.BoolVar(&o.Protein, "protein", false, "force blastp (default: detected from the transcriptome)")
	f.BoolVar(&o.Overwrite, "overwrite", false, "rerun even if all outputs exist")
	f.StringVar(&o.Aligner, "aligner", config.DefaultBackend, "aligner backend")
	f.StringVar(&o.AlignerExe, "aligner-exe", "", "aligner executable (default: backend name on PATH)")
	return cmd
}
