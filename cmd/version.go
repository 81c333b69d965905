package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "followsync %s\n", version)
			fmt.Fprintf(out, "Built: %s\n", buildTime)
			if _, err := semver.ParseTolerant(version); err != nil {
				fmt.Fprintln(out, "Development build")
			}
		},
	}
}
