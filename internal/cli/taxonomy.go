package cli

import (
	"github.com/spf13/cobra"
)

func newTaxonomyCommand(h Handlers) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Manage the taxonomy index",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var dump, index string
	build := &cobra.Command{
		Use:   "build",
		Short: "Build the SQLite taxonomy index from a text dump",
		Long: `Reads a sci_name<TAB>tax_id<TAB>lineage dump (optionally gzipped) and
stores it in a SQLite index usable with filter --taxonomy.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dump == "" || index == "" {
				return usagef("taxonomy build needs --dump and --index")
			}
			return h.BuildTaxonomy(cmd.Context(), dump, index, streams(cmd))
		},
	}
	build.Flags().StringVar(&dump, "dump", "", "taxonomy dump [*]")
	build.Flags().StringVar(&index, "index", "", "index file to create or refresh [*]")

	cmd.AddCommand(build)
	return cmd
}
