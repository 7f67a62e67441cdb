package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/validation"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	var workflow string

	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "validate a workflow configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags.verbose)
			if err != nil {
				return err
			}

			cfg, err := config.LoadFile(args[0])
			if err != nil {
				return err
			}

			var result *validation.ValidationResult
			if workflow == "" {
				result = validation.Validate(cfg, app.registry, flags.failFast)
			} else {
				result, err = validation.ValidateWorkflow(cfg, app.registry, workflow, flags.failFast)
				if err != nil {
					app.audit.ValidationEvent(result)
					return printValidationResult(cmd, result)
				}
			}

			app.audit.ValidationEvent(result)
			return printValidationResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&workflow, "workflow", "", "validate only the named workflow")
	return cmd
}

func printValidationResult(cmd *cobra.Command, result *validation.ValidationResult) error {
	out := cmd.OutOrStdout()
	if result.Passed() {
		fmt.Fprintf(out, "valid: %d workflow(s), %d warning(s)\n", len(result.Workflows), len(result.Warnings))
		return nil
	}

	fmt.Fprintf(out, "invalid: %d error(s)\n", len(result.Errors))
	for _, f := range result.Errors {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Type, f.Location, f.Message)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
}
