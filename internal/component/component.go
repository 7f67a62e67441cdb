// Package component defines the two contracts exposed to implementers
// (spec §6): Step and Guard. Both the Component Registry (internal/registry)
// and the Graph Executor (internal/engine) depend only on these interfaces,
// never on concrete implementations.
package component

import (
	"github.com/flowforge/flowforge/internal/execctx"
	"github.com/flowforge/flowforge/internal/model"
)

// Step is a named unit of work invoked with the shared execution context.
type Step interface {
	Execute(ctx *execctx.Context) model.StepResult
}

// Guard is a named predicate over the execution context.
type Guard interface {
	Evaluate(ctx *execctx.Context) bool
}

// StepFactory produces a fresh Step instance. A fresh instance is created
// per invocation, injected, used, and released (spec §3, Lifecycle).
type StepFactory func() Step

// GuardFactory produces a fresh Guard instance.
type GuardFactory func() Guard

// Named is implemented by a step or guard that declares its own registry
// name. ScanSteps/ScanGuards register such a component under that name
// instead of the namespace-scan fallback names (spec §4.C1); explicit
// RegisterStep/RegisterGuard calls use the name they are given and do not
// consult Named.
type Named interface {
	Named() string
}
