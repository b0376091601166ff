// Package commands implements CLI command handlers for crasim.
package commands

import (
	"github.com/spf13/cobra"
)

// Root builds the crasim root command, with "run" as its one subcommand.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "crasim",
		Short:         "Replay a trace through the Cost/Latency-Aware cache simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	return root
}
