package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/catalogue"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the program and built-in catalogue versions",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "durazno", version)
			fmt.Fprintln(cmd.OutOrStdout(), "catalogue", catalogue.SeedVersion)
		},
	}
}
