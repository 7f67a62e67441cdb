package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/config"
)

type fakeResolver struct {
	steps  map[string]bool
	guards map[string]bool
}

func (f fakeResolver) HasStep(name string) bool  { return f.steps[name] }
func (f fakeResolver) HasGuard(name string) bool { return f.guards[name] }

func linearConfig() *config.WorkflowConfig {
	return &config.WorkflowConfig{
		Steps: map[string]config.StepDef{
			"a": {Type: "log"},
			"b": {Type: "log"},
		},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "a",
				Edges: []config.EdgeDef{
					{From: "a", To: "b"},
					{From: "b", To: config.Success},
				},
			},
		},
	}
}

func TestCycleValidatorNoCycle(t *testing.T) {
	t.Parallel()

	v := &CycleValidator{}
	errs, _ := v.Validate(linearConfig())
	require.Empty(t, errs)
}

func TestCycleValidatorDetectsCycle(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{"a": {Type: "log"}, "b": {Type: "log"}},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "a",
				Edges: []config.EdgeDef{
					{From: "a", To: "b"},
					{From: "b", To: "a"},
				},
			},
		},
	}

	v := &CycleValidator{}
	errs, _ := v.Validate(cfg)
	require.Len(t, errs, 1)
	require.Equal(t, "CYCLE_DETECTED", errs[0].Type)
	require.Equal(t, []string{"a", "b", "a"}, errs[0].Detail["cyclePath"])
}

func TestEdgeOrderingRejectsUnguardedNotLast(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{"a": {Type: "log"}, "b": {Type: "log"}, "c": {Type: "log"}},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "a",
				Edges: []config.EdgeDef{
					{From: "a", To: "b"}, // unguarded
					{From: "a", To: "c", Guard: "always"},
				},
			},
		},
	}

	v := &EdgeOrderingValidator{}
	errs, _ := v.Validate(cfg)
	require.Len(t, errs, 1)
	require.Equal(t, "UNGUARDED_EDGE_NOT_LAST", errs[0].Type)
}

func TestEdgeOrderingAllowsUnguardedLast(t *testing.T) {
	t.Parallel()

	v := &EdgeOrderingValidator{}
	errs, _ := v.Validate(linearConfig())
	require.Empty(t, errs)
}

func TestEdgeOrderingDetectsMultipleUnguarded(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{"a": {Type: "log"}, "b": {Type: "log"}, "c": {Type: "log"}},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "a",
				Edges: []config.EdgeDef{
					{From: "a", To: "b"},
					{From: "a", To: "c"},
				},
			},
		},
	}

	v := &EdgeOrderingValidator{}
	errs, _ := v.Validate(cfg)

	var types []string
	for _, e := range errs {
		types = append(types, e.Type)
	}
	require.Contains(t, types, "UNGUARDED_EDGES_MULTIPLE")
}

func TestReferenceValidatorDetectsUnknownStepType(t *testing.T) {
	t.Parallel()

	cfg := linearConfig()
	resolver := fakeResolver{steps: map[string]bool{}, guards: map[string]bool{}}

	v := &ReferenceValidator{Registry: resolver}
	errs, _ := v.Validate(cfg)
	require.NotEmpty(t, errs)
}

func TestReferenceValidatorPassesWhenResolvable(t *testing.T) {
	t.Parallel()

	cfg := linearConfig()
	resolver := fakeResolver{steps: map[string]bool{"log": true}, guards: map[string]bool{}}

	v := &ReferenceValidator{Registry: resolver}
	errs, _ := v.Validate(cfg)
	require.Empty(t, errs)
}

func TestValidateOrThrowRaisesOnErrors(t *testing.T) {
	t.Parallel()

	cfg := linearConfig()
	resolver := fakeResolver{steps: map[string]bool{}, guards: map[string]bool{}}

	_, err := ValidateOrThrow(cfg, resolver, false)
	require.Error(t, err)
}

func TestValidateOrThrowPassesCleanConfig(t *testing.T) {
	t.Parallel()

	cfg := linearConfig()
	resolver := fakeResolver{steps: map[string]bool{"log": true}, guards: map[string]bool{}}

	result, err := ValidateOrThrow(cfg, resolver, false)
	require.NoError(t, err)
	require.True(t, result.Passed())
}

func TestPipelineFailFastStopsAfterFirstFailFastValidatorError(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{"a": {Type: "log"}, "b": {Type: "log"}},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "a",
				Edges: []config.EdgeDef{
					{From: "a", To: "b"},
					{From: "b", To: "a"},
				},
			},
		},
	}
	resolver := fakeResolver{steps: map[string]bool{}, guards: map[string]bool{}}

	result := Validate(cfg, resolver, true)
	require.NotEmpty(t, result.Errors)
	// reference-validity (priority 30) should not have run once
	// cycle-detection (priority 10, failFast) already failed.
	require.NotContains(t, result.Validators, "reference-validity")
}
