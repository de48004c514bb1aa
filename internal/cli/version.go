package cli

import (
	"github.com/spf13/cobra"

	"simfilter/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("simfilter version %s\n", version.Version)
		},
	}
}
