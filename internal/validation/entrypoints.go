package validation

import (
	"github.com/flowforge/flowforge/internal/config"
	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

// Validate runs the default pipeline over cfg and returns the aggregated
// result (spec §6). failFast controls whether a failFast validator's
// errors short-circuit the remaining sweep.
func Validate(cfg *config.WorkflowConfig, registry Resolver, failFast bool) *ValidationResult {
	pipeline := NewPipeline(
		&CycleValidator{},
		&EdgeOrderingValidator{},
		&ReferenceValidator{Registry: registry},
	)
	return pipeline.Run(cfg, failFast)
}

// ValidateOrThrow runs Validate and raises a ValidationException (spec §7)
// if the result carries any errors.
func ValidateOrThrow(cfg *config.WorkflowConfig, registry Resolver, failFast bool) (*ValidationResult, error) {
	result := Validate(cfg, registry, failFast)
	if !result.Passed() {
		return result, flowerrors.NewValidationException(result)
	}
	return result, nil
}

// ValidateWorkflow narrows validation to a single named workflow (spec
// §12, Supplemented Features): step-scoped checks (reference validity for
// step types/guards) still consider the whole config, since steps are
// shared across workflows, but workflow-scoped checks (cycle, edge
// ordering) run only against the named workflow.
func ValidateWorkflow(cfg *config.WorkflowConfig, registry Resolver, workflowName string, failFast bool) (*ValidationResult, error) {
	if cfg == nil {
		return &ValidationResult{}, nil
	}
	wf, ok := cfg.Workflows[workflowName]
	if !ok {
		result := &ValidationResult{
			Errors: []Finding{unknownReference(workflowName, "workflow", workflowName, workflowName)},
		}
		return result, flowerrors.NewValidationException(result)
	}

	narrowed := &config.WorkflowConfig{
		Settings:  cfg.Settings,
		Defaults:  cfg.Defaults,
		Steps:     cfg.Steps,
		Workflows: map[string]config.WorkflowDef{workflowName: wf},
	}
	return ValidateOrThrow(narrowed, registry, failFast)
}
