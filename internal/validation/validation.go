// Package validation implements the Validator Pipeline (spec §4.C4): an
// ordered set of independently-addressable checks over a WorkflowConfig,
// aggregated into a ValidationResult, with an optional fail-fast
// short-circuit. The DFS/ordering style is grounded on the teacher's
// internal/config/cycle_detector.go and internal/plugin/dependency_graph.go,
// generalized to the spec's three required validators.
package validation

import (
	"fmt"
	"time"

	"github.com/flowforge/flowforge/internal/config"
)

// Finding is a single validation error or warning (spec §4.C4, "Each
// finding carries...").
type Finding struct {
	Type     string
	Message  string
	Workflow string
	Location string
	Detail   map[string]any
}

// Validator is an independently-addressable check over a WorkflowConfig.
type Validator interface {
	Name() string
	Description() string
	Priority() int
	FailFast() bool
	Validate(cfg *config.WorkflowConfig) (errors, warnings []Finding)
}

// ValidationResult aggregates every validator's findings plus run metadata.
type ValidationResult struct {
	Errors     []Finding
	Warnings   []Finding
	WallTime   time.Duration
	Validators []string
	Workflows  []string
}

// Passed reports whether the result carries no errors.
func (r *ValidationResult) Passed() bool {
	return r != nil && len(r.Errors) == 0
}

// Pipeline runs a fixed, priority-ordered sequence of Validators.
type Pipeline struct {
	validators []Validator
}

// NewPipeline builds a pipeline from vs, sorted by ascending priority
// (lower runs earlier). Ties preserve the order vs was supplied in, so
// pipeline behavior stays deterministic across runs.
func NewPipeline(vs ...Validator) *Pipeline {
	sorted := make([]Validator, len(vs))
	copy(sorted, vs)
	stableSortByPriority(sorted)
	return &Pipeline{validators: sorted}
}

// Default builds the pipeline with the three required validators (spec
// §4.C4): Cycle Detection, Edge Ordering, Reference Validity.
func Default() *Pipeline {
	return NewPipeline(
		&CycleValidator{},
		&EdgeOrderingValidator{},
		&ReferenceValidator{},
	)
}

// Run executes the pipeline against cfg. When failFastOverride is true, a
// failFast validator's errors still stop the sweep; passing false forces a
// full sweep regardless of any validator's own failFast flag (spec §4.C4,
// "optional — caller may request full sweep regardless").
func (p *Pipeline) Run(cfg *config.WorkflowConfig, failFastOverride bool) *ValidationResult {
	start := time.Now()
	result := &ValidationResult{
		Workflows: workflowNames(cfg),
	}

	for _, v := range p.validators {
		result.Validators = append(result.Validators, v.Name())
		errs, warns := v.Validate(cfg)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)

		if failFastOverride && v.FailFast() && len(errs) > 0 {
			break
		}
	}

	result.WallTime = time.Since(start)
	return result
}

func workflowNames(cfg *config.WorkflowConfig) []string {
	if cfg == nil {
		return nil
	}
	names := make([]string, 0, len(cfg.Workflows))
	for name := range cfg.Workflows {
		names = append(names, name)
	}
	return names
}

func stableSortByPriority(vs []Validator) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].Priority() < vs[j-1].Priority(); j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}

func location(workflow, step string) string {
	if step == "" {
		return fmt.Sprintf("workflows.%s", workflow)
	}
	return fmt.Sprintf("workflows.%s.edges[from=%s]", workflow, step)
}
