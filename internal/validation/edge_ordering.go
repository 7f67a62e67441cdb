package validation

import "github.com/flowforge/flowforge/internal/config"

// EdgeOrderingValidator checks, for every workflow and every distinct
// `from` step, that at most one unguarded edge exists and — if present —
// that it is the last edge declared for that `from` (spec §4.C4, Edge
// Ordering; invariant 2).
type EdgeOrderingValidator struct{}

func (*EdgeOrderingValidator) Name() string        { return "edge-ordering" }
func (*EdgeOrderingValidator) Description() string { return "requires the unguarded edge, if any, to be the last edge for its step" }
func (*EdgeOrderingValidator) Priority() int       { return 20 }
func (*EdgeOrderingValidator) FailFast() bool      { return false }

func (v *EdgeOrderingValidator) Validate(cfg *config.WorkflowConfig) ([]Finding, []Finding) {
	if cfg == nil {
		return nil, nil
	}

	var errs []Finding
	for name, wf := range cfg.Workflows {
		byFrom := make(map[string][]config.EdgeDef)
		var order []string
		for _, e := range wf.Edges {
			if _, seen := byFrom[e.From]; !seen {
				order = append(order, e.From)
			}
			byFrom[e.From] = append(byFrom[e.From], e)
		}

		for _, from := range order {
			edges := byFrom[from]
			errs = append(errs, checkUnguardedPlacement(name, from, edges)...)
		}
	}
	return errs, nil
}

func checkUnguardedPlacement(workflow, from string, edges []config.EdgeDef) []Finding {
	var unguardedIdx []int
	for i, e := range edges {
		if e.Unguarded() {
			unguardedIdx = append(unguardedIdx, i)
		}
	}

	if len(unguardedIdx) == 0 {
		return nil
	}

	var findings []Finding
	if len(unguardedIdx) > 1 {
		rendered := make([]string, 0, len(unguardedIdx))
		for _, idx := range unguardedIdx {
			rendered = append(rendered, edges[idx].Render())
		}
		findings = append(findings, Finding{
			Type:     "UNGUARDED_EDGES_MULTIPLE",
			Message:  "step has more than one unguarded edge",
			Workflow: workflow,
			Location: location(workflow, from),
			Detail: map[string]any{
				"stepName": from,
				"edges":    rendered,
			},
		})
	}

	last := unguardedIdx[len(unguardedIdx)-1]
	if last != len(edges)-1 {
		violating := make([]string, 0, len(edges)-last-1)
		for _, e := range edges[last+1:] {
			violating = append(violating, e.Render())
		}
		findings = append(findings, Finding{
			Type:     "UNGUARDED_EDGE_NOT_LAST",
			Message:  "unguarded edge must be the last edge declared for this step",
			Workflow: workflow,
			Location: location(workflow, from),
			Detail: map[string]any{
				"stepName":       from,
				"unguardedEdge":  edges[last].Render(),
				"violatingEdges": violating,
			},
		})
	}

	return findings
}
