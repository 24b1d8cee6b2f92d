package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargazer/pkg/buildinfo"
)

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", appName, buildinfo.Version)
			fmt.Fprintf(out, "commit: %s\n", buildinfo.Commit)
			fmt.Fprintf(out, "built:  %s\n", buildinfo.Date)
		},
	}
}
