// Package guard implements the Guard Evaluator (spec §4.C6): resolving a
// guard name to a fresh instance, injecting its dependencies, evaluating
// it, and treating any fault raised during construction, injection, or
// evaluation as a fail-closed `false` (never surfaced to the caller).
package guard

import (
	"reflect"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/execctx"
	"github.com/flowforge/flowforge/internal/inject"
	"github.com/flowforge/flowforge/internal/logger"
	"github.com/flowforge/flowforge/internal/merge"
	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

// Registry is the narrow slice of the Component Registry the evaluator
// needs: resolving a guard name to a fresh instance.
type Registry interface {
	ResolveGuard(name string) (component.Guard, error)
}

// Evaluator resolves, injects, and evaluates guards by name.
type Evaluator struct {
	Registry Registry
	Log      *logger.Logger
}

// New builds an Evaluator. log may be nil.
func New(registry Registry, log *logger.Logger) *Evaluator {
	return &Evaluator{Registry: registry, Log: log}
}

// Evaluate resolves guardName against steps, injects cfg/settings/ctx into
// the fresh instance, and runs it. Any error — unresolved name, injection
// failure, or an evaluation-time panic recovered as a fault — is logged
// and coerced to false per spec §4.C6's fail-closed contract; it is never
// returned to the caller.
//
// Resolution (spec §4.C6): if guardName names an entry in steps, that
// StepDef is treated as a guard definition — its Type is resolved in the
// guard registry and its Config supplies the inline layer. Otherwise
// guardName is resolved directly in the guard registry with no inline
// config.
func (e *Evaluator) Evaluate(guardName string, ctx *execctx.Context, steps map[string]config.StepDef, defaults map[string]config.Tree, settings config.Tree) bool {
	lookupName := guardName
	var inline config.Tree
	if def, ok := steps[guardName]; ok {
		lookupName = def.Type
		inline = def.Config
	}

	instance, err := e.Registry.ResolveGuard(lookupName)
	if err != nil {
		e.fault(guardName, err)
		return false
	}

	effective, err := merge.Effective(defaults, merge.CategoryGuard, lookupName, inline)
	if err != nil {
		e.fault(guardName, err)
		return false
	}

	// Only pointer instances have settable fields; a value-type guard has
	// nothing to inject and is evaluated as constructed.
	if reflect.ValueOf(instance).Kind() == reflect.Ptr {
		if err := inject.Into(instance, ctx, effective, settings); err != nil {
			e.fault(guardName, err)
			return false
		}
	}

	return e.safeEvaluate(guardName, instance, ctx)
}

// safeEvaluate recovers a panicking guard implementation and reports it as
// a fault, since a third-party Guard.Evaluate is untrusted code running
// inside the engine's own call stack.
func (e *Evaluator) safeEvaluate(guardName string, instance component.Guard, ctx *execctx.Context) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			e.fault(guardName, flowerrors.NewGuardFault(guardName, panicToError(r)))
			result = false
		}
	}()
	return instance.Evaluate(ctx)
}

func (e *Evaluator) fault(guardName string, err error) {
	fault := flowerrors.NewGuardFault(guardName, err)
	if e.Log != nil {
		e.Log.Warn(fault.Error())
	}
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return flowerrors.NewGraphFault("", formatPanic(r))
}

func formatPanic(r any) string {
	return "guard panicked: " + toString(r)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "non-string panic value"
}
