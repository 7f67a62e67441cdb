package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list the steps and guards registered in the built-in catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags.verbose)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "steps:")
			for _, name := range app.registry.StepNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "guards:")
			for _, name := range app.registry.GuardNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
	return cmd
}
