package main

import (
	"os"

	"github.com/flowforge/flowforge/internal/audit"
	"github.com/flowforge/flowforge/internal/guards"
	"github.com/flowforge/flowforge/internal/logger"
	"github.com/flowforge/flowforge/internal/registry"
	"github.com/flowforge/flowforge/internal/steps"
)

// appContext bundles the process-wide collaborators every subcommand needs,
// the way the teacher's AppContext composes its use cases.
type appContext struct {
	log      *logger.Logger
	audit    *audit.Trail
	registry *registry.Registry
}

func newAppContext(verbose bool) (*appContext, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Component: "cli"})
	if err != nil {
		return nil, err
	}

	reg := registry.New(log)
	reg.ScanSteps(steps.Factories())
	reg.ScanGuards(guards.Factories())

	return &appContext{
		log:      log,
		audit:    audit.New(os.Stderr),
		registry: reg,
	}, nil
}
