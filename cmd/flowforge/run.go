package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/engine"
	"github.com/flowforge/flowforge/internal/tui"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var workflow string
	var watch bool

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "validate and run a workflow",
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
			if workflow == "" {
				workflow = soleWorkflowName(cfg)
			}

			eng := engine.New(cfg, app.registry, app.log)
			if _, err := eng.ValidateOrThrow(flags.failFast); err != nil {
				return err
			}

			if watch && term.IsTerminal(int(os.Stdout.Fd())) {
				return runWithWatch(cmd, eng, workflow)
			}
			return runPlain(cmd, app, eng, workflow)
		},
	}

	cmd.Flags().StringVar(&workflow, "workflow", "", "workflow to run (defaults to the sole declared workflow)")
	cmd.Flags().BoolVar(&watch, "watch", false, "show a live progress view while the workflow runs (requires a TTY)")
	return cmd
}

func soleWorkflowName(cfg *config.WorkflowConfig) string {
	for name := range cfg.Workflows {
		return name
	}
	return ""
}

func runPlain(cmd *cobra.Command, app *appContext, eng *engine.Engine, workflow string) error {
	start := time.Now()
	result := eng.Run(context.Background(), workflow, nil)
	app.audit.RunEvent(workflow, result, time.Since(start))

	out := cmd.OutOrStdout()
	if result.Ok {
		fmt.Fprintf(out, "SUCCESS: %s\n", result.Message)
		return nil
	}
	fmt.Fprintf(out, "FAILURE: %s\n", result.Message)
	return fmt.Errorf("workflow %q failed: %s", workflow, result.Message)
}

func runWithWatch(cmd *cobra.Command, eng *engine.Engine, workflow string) error {
	model := tui.NewModel(workflow)
	program := tea.NewProgram(model)

	eng.OnNodeEnter = func(node string) {
		program.Send(tui.NodeEnteredMsg{Node: node, At: time.Now()})
	}

	resultCh := make(chan struct {
		ok      bool
		message string
	}, 1)
	go func() {
		result := eng.Run(context.Background(), workflow, nil)
		resultCh <- struct {
			ok      bool
			message string
		}{result.Ok, result.Message}
		program.Send(tui.RunFinishedMsg{Ok: result.Ok, Message: result.Message})
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	final := <-resultCh
	if final.ok {
		return nil
	}
	return fmt.Errorf("workflow %q failed: %s", workflow, final.message)
}
