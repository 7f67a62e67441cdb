package validation

import "github.com/flowforge/flowforge/internal/config"

// Resolver reports whether a name is known to the Component Registry,
// without requiring the validation package to import internal/registry
// directly (kept as a narrow interface so tests can supply a fake).
type Resolver interface {
	HasStep(name string) bool
	HasGuard(name string) bool
}

// ReferenceValidator checks that every step type, guard name, edge
// from/to, and workflow root resolves against the registry, the declared
// step map, or the terminal symbol set (spec §4.C4, Reference Validity;
// invariants 1 and 3).
type ReferenceValidator struct {
	Registry Resolver
}

func (*ReferenceValidator) Name() string        { return "reference-validity" }
func (*ReferenceValidator) Description() string { return "requires every step type, guard, and edge endpoint to resolve" }
func (*ReferenceValidator) Priority() int       { return 30 }
func (*ReferenceValidator) FailFast() bool      { return true }

func (v *ReferenceValidator) Validate(cfg *config.WorkflowConfig) ([]Finding, []Finding) {
	if cfg == nil {
		return nil, nil
	}

	var errs []Finding

	for stepName, def := range cfg.Steps {
		if v.Registry != nil && !v.Registry.HasStep(def.Type) {
			errs = append(errs, unknownReference("", "step type", stepName, def.Type))
		}
		for _, g := range def.Guards {
			if v.Registry != nil && !v.Registry.HasGuard(g) {
				errs = append(errs, unknownReference("", "step guard", stepName, g))
			}
		}
		if def.Retry != nil && def.Retry.HasGuard() && v.Registry != nil && !v.Registry.HasGuard(def.Retry.Guard) {
			errs = append(errs, unknownReference("", "retry guard", stepName, def.Retry.Guard))
		}
	}

	for name, wf := range cfg.Workflows {
		if !config.IsTerminal(wf.Root) {
			if _, ok := cfg.Steps[wf.Root]; !ok {
				errs = append(errs, unknownReference(name, "root", name, wf.Root))
			}
		}
		for _, e := range wf.Edges {
			if !config.IsTerminal(e.From) {
				if _, ok := cfg.Steps[e.From]; !ok {
					errs = append(errs, unknownReference(name, "edge from", e.From, e.From))
				}
			}
			if !config.IsTerminal(e.To) {
				if _, ok := cfg.Steps[e.To]; !ok {
					errs = append(errs, unknownReference(name, "edge to", e.From, e.To))
				}
			}
			if !e.Unguarded() && v.Registry != nil && !v.Registry.HasGuard(e.Guard) {
				errs = append(errs, unknownReference(name, "edge guard", e.From, e.Guard))
			}
			if e.OnFailure != nil && e.OnFailure.Strategy == config.StrategyAlternative {
				if !config.IsTerminal(e.OnFailure.AlternativeTarget) {
					if _, ok := cfg.Steps[e.OnFailure.AlternativeTarget]; !ok {
						errs = append(errs, unknownReference(name, "alternative target", e.From, e.OnFailure.AlternativeTarget))
					}
				}
			}
		}
	}

	return errs, nil
}

func unknownReference(workflow, kind, step, name string) Finding {
	return Finding{
		Type:     "UNKNOWN_REFERENCE",
		Message:  "unresolved " + kind + " reference: " + name,
		Workflow: workflow,
		Location: location(workflow, step),
		Detail: map[string]any{
			"kind": kind,
			"name": name,
		},
	}
}
