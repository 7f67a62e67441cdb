// Package config defines the WorkflowConfig data model (spec §3) and the
// loader/schema-validation surface used by tests and the CLI to produce a
// WorkflowConfig value (spec §1, §6 — config surface formats are an
// external collaborator; this package is the minimal in-repo loader used to
// exercise the engine end to end).
package config

import (
	"sort"
	"strings"
)

// Terminal step names, reserved and never declared under steps (spec §3, §6).
const (
	Success = "SUCCESS"
	Failure = "FAILURE"
)

// IsTerminal reports whether name is one of the reserved terminal symbols.
func IsTerminal(name string) bool {
	return name == Success || name == Failure
}

// Tree is an arbitrary nested keyed tree of scalar/map/list values, used for
// both the global settings tree and per-scope configuration trees.
type Tree map[string]any

// Path resolves a dotted path (e.g. "database.pool.size") against the tree,
// walking nested Tree/map[string]any values. Settings is exposed by dotted
// path on demand rather than deep-merged into effective configuration
// (spec §4.C2, point 1).
func (t Tree) Path(dotted string) (any, bool) {
	if t == nil || dotted == "" {
		return nil, false
	}

	var current any = map[string]any(t)
	for _, segment := range strings.Split(dotted, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		val, ok := m[segment]
		if !ok {
			return nil, false
		}
		current = val
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Tree:
		return map[string]any(t), true
	case map[string]any:
		return t, true
	default:
		return nil, false
	}
}

// WorkflowConfig is the input to both the validator pipeline and the graph
// executor (spec §3).
type WorkflowConfig struct {
	Settings  Tree                   `yaml:"settings,omitempty"`
	Defaults  map[string]Tree        `yaml:"defaults,omitempty"`
	Steps     map[string]StepDef     `yaml:"steps" validate:"dive"`
	Workflows map[string]WorkflowDef `yaml:"workflows" validate:"required,min=1,dive"`
}

// StepDef describes a registered step's invocation configuration.
type StepDef struct {
	Type   string       `yaml:"type" validate:"required"`
	Config Tree         `yaml:"config,omitempty"`
	Guards []string     `yaml:"guards,omitempty"`
	Retry  *RetryConfig `yaml:"retry,omitempty"`
}

// Backoff selects the delay growth strategy for a retry policy.
type Backoff string

const (
	BackoffFixed       Backoff = "FIXED"
	BackoffExponential Backoff = "EXPONENTIAL"
)

// RetryConfig governs how the Retry Controller (spec §4.C7) retries a
// failing invocation.
type RetryConfig struct {
	MaxAttempts int     `yaml:"maxAttempts" validate:"min=1"`
	DelayMS     int     `yaml:"delay" validate:"min=0"`
	Backoff     Backoff `yaml:"backoff,omitempty" validate:"omitempty,oneof=FIXED EXPONENTIAL"`
	Multiplier  float64 `yaml:"multiplier,omitempty"`
	MaxDelayMS  int     `yaml:"maxDelay,omitempty"`
	Guard       string  `yaml:"guard,omitempty"`
}

// IsExponential reports whether the policy applies exponential backoff.
func (r RetryConfig) IsExponential() bool {
	return r.Backoff == BackoffExponential
}

// HasGuard reports whether a retry-gate guard is configured.
func (r RetryConfig) HasGuard() bool {
	return strings.TrimSpace(r.Guard) != ""
}

// WorkflowDef names a root step and the ordered edges reachable from it.
type WorkflowDef struct {
	Root  string    `yaml:"root" validate:"required"`
	Edges []EdgeDef `yaml:"edges" validate:"required,dive"`
}

// Strategy selects how an edge-level guard failure is handled.
type Strategy string

const (
	StrategyStop        Strategy = "STOP"
	StrategySkip        Strategy = "SKIP"
	StrategyAlternative Strategy = "ALTERNATIVE"
	StrategyRetry       Strategy = "RETRY"
	StrategyContinue    Strategy = "CONTINUE"
)

// EdgeFailurePolicy governs what happens when an edge's guard returns false.
type EdgeFailurePolicy struct {
	Strategy          Strategy `yaml:"strategy" validate:"required,oneof=STOP SKIP ALTERNATIVE RETRY CONTINUE"`
	AlternativeTarget string   `yaml:"alternativeTarget,omitempty"`
	Attempts          int      `yaml:"attempts,omitempty" validate:"omitempty,min=1"`
	DelayMS           int      `yaml:"delay,omitempty" validate:"omitempty,min=0"`
}

// EdgeDef is a directed transition from one step to another step or a
// terminal, optionally gated by a guard and carrying a failure policy.
type EdgeDef struct {
	From      string             `yaml:"from" validate:"required"`
	To        string             `yaml:"to" validate:"required"`
	Guard     string             `yaml:"guard,omitempty"`
	OnFailure *EdgeFailurePolicy `yaml:"onFailure,omitempty"`
}

// Unguarded reports whether the edge has no guard. A blank or whitespace-only
// guard string counts as absent — this must be preserved exactly, since edge
// ordering validation depends on it (spec §9, Open Questions).
func (e EdgeDef) Unguarded() bool {
	return strings.TrimSpace(e.Guard) == ""
}

// Render formats the edge the way findings report it: "from → to".
func (e EdgeDef) Render() string {
	return e.From + " → " + e.To
}

// StepNames returns the sorted logical names of every declared step.
func (c *WorkflowConfig) StepNames() []string {
	names := make([]string, 0, len(c.Steps))
	for name := range c.Steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
