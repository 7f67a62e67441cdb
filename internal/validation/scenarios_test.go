package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/config"
)

// TestScenarioS5CycleValidationRejection exercises spec §8 S5 end to end
// through the full default pipeline: edges [A→B, B→C, C→A] must be rejected
// with one CYCLE_DETECTED finding whose cyclePath is [A,B,C,A] and whose
// edges list all three participating edges.
func TestScenarioS5CycleValidationRejection(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{
			"A": {Type: "log"},
			"B": {Type: "log"},
			"C": {Type: "log"},
		},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "A",
				Edges: []config.EdgeDef{
					{From: "A", To: "B"},
					{From: "B", To: "C"},
					{From: "C", To: "A"},
				},
			},
		},
	}

	resolver := fakeResolver{
		steps:  map[string]bool{"log": true},
		guards: map[string]bool{},
	}

	result := Validate(cfg, resolver, true)
	require.False(t, result.Passed())
	require.Len(t, result.Errors, 1)

	f := result.Errors[0]
	require.Equal(t, "CYCLE_DETECTED", f.Type)
	require.Equal(t, []string{"A", "B", "C", "A"}, f.Detail["cyclePath"])
	require.Equal(t, []string{"A → B", "B → C", "C → A"}, f.Detail["edges"])
}

// TestScenarioS6UnguardedNotLastRejection exercises spec §8 S6 end to end:
// edges from "process" are [process→notify (no guard), process→audit
// (guard=auditRequired)], which must be rejected with a single
// UNGUARDED_EDGE_NOT_LAST finding naming the unguarded edge and the edges it
// shadows.
func TestScenarioS6UnguardedNotLastRejection(t *testing.T) {
	t.Parallel()

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{
			"process": {Type: "log"},
			"notify":  {Type: "log"},
			"audit":   {Type: "log"},
		},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "process",
				Edges: []config.EdgeDef{
					{From: "process", To: "notify"},
					{From: "process", To: "audit", Guard: "auditRequired"},
				},
			},
		},
	}

	resolver := fakeResolver{
		steps:  map[string]bool{"log": true},
		guards: map[string]bool{"auditRequired": true},
	}

	result := Validate(cfg, resolver, false)
	require.False(t, result.Passed())

	var found *Finding
	for i := range result.Errors {
		if result.Errors[i].Type == "UNGUARDED_EDGE_NOT_LAST" {
			found = &result.Errors[i]
		}
	}
	require.NotNil(t, found, "expected an UNGUARDED_EDGE_NOT_LAST finding")
	require.Equal(t, "process → notify", found.Detail["unguardedEdge"])
	require.Equal(t, []string{"process → audit"}, found.Detail["violatingEdges"])
}
