package validation

import "github.com/flowforge/flowforge/internal/config"

// CycleValidator performs a depth-first traversal from each workflow's root,
// ignoring guards, and reports any cycle encountered (spec §4.C4, Cycle
// Detection; invariant 4). Unlike the teacher's dependency-graph walk (which
// sorts node names before traversing, since plugin load order is
// irrelevant there), this walk visits edges in declaration order — the
// spec requires a deterministic, reproducible cycle path, and workflow
// edge order is meaningful to the caller.
type CycleValidator struct{}

func (*CycleValidator) Name() string        { return "cycle-detection" }
func (*CycleValidator) Description() string { return "rejects workflows whose edge graph contains a cycle reachable from root" }
func (*CycleValidator) Priority() int       { return 10 }
func (*CycleValidator) FailFast() bool      { return true }

func (v *CycleValidator) Validate(cfg *config.WorkflowConfig) ([]Finding, []Finding) {
	if cfg == nil {
		return nil, nil
	}

	var errs []Finding
	for name, wf := range cfg.Workflows {
		adjacency := buildAdjacency(wf)
		if cycle, edges := findCycle(wf.Root, adjacency); cycle != nil {
			errs = append(errs, Finding{
				Type:     "CYCLE_DETECTED",
				Message:  "workflow contains a cycle reachable from root",
				Workflow: name,
				Location: location(name, wf.Root),
				Detail: map[string]any{
					"cyclePath": cycle,
					"edges":     edges,
				},
			})
		}
	}
	return errs, nil
}

// adjEdge pairs a destination with the original EdgeDef it was declared by,
// so a detected cycle can report which edges compose it.
type adjEdge struct {
	to   string
	edge config.EdgeDef
}

func buildAdjacency(wf config.WorkflowDef) map[string][]adjEdge {
	adjacency := make(map[string][]adjEdge, len(wf.Edges))
	for _, e := range wf.Edges {
		adjacency[e.From] = append(adjacency[e.From], adjEdge{to: e.To, edge: e})
	}
	return adjacency
}

// findCycle walks adjacency depth-first from root, in declaration order,
// and returns the first cycle found: the ordered node path forming the
// loop, and the rendered edges that compose it.
func findCycle(root string, adjacency map[string][]adjEdge) ([]string, []string) {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string
	var cyclePath []string
	var cycleEdges []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		if config.IsTerminal(node) {
			return false
		}
		visiting[node] = true
		stack = append(stack, node)

		for _, next := range adjacency[node] {
			if config.IsTerminal(next.to) {
				continue
			}
			if visiting[next.to] {
				idx := indexOf(stack, next.to)
				if idx >= 0 {
					cyclePath = append([]string{}, stack[idx:]...)
					cyclePath = append(cyclePath, next.to)
					cycleEdges = renderCycleEdges(cyclePath, adjacency)
				}
				return true
			}
			if !visited[next.to] && dfs(next.to) {
				return true
			}
		}

		visiting[node] = false
		visited[node] = true
		stack = stack[:len(stack)-1]
		return false
	}

	dfs(root)
	return cyclePath, cycleEdges
}

func renderCycleEdges(path []string, adjacency map[string][]adjEdge) []string {
	edges := make([]string, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		from, to := path[i], path[i+1]
		for _, next := range adjacency[from] {
			if next.to == to {
				edges = append(edges, next.edge.Render())
				break
			}
		}
	}
	return edges
}

func indexOf(stack []string, target string) int {
	for i, v := range stack {
		if v == target {
			return i
		}
	}
	return -1
}
