package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	failFast bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "flowforge",
		Short:         "flowforge runs declarative guarded-graph workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.failFast, "fail-fast", true, "stop validation at the first fail-fast validator error")

	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newListCmd(flags))

	return cmd
}
