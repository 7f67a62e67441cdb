// Package engine implements the Graph Executor (spec §4.C8): the engine's
// main loop, driving a single workflow run from its root step through
// guarded edges to a terminal outcome. This is the core component the
// rest of the package tree exists to support.
package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/execctx"
	"github.com/flowforge/flowforge/internal/guard"
	"github.com/flowforge/flowforge/internal/inject"
	"github.com/flowforge/flowforge/internal/logger"
	"github.com/flowforge/flowforge/internal/merge"
	"github.com/flowforge/flowforge/internal/model"
	"github.com/flowforge/flowforge/internal/registry"
	"github.com/flowforge/flowforge/internal/retry"
	"github.com/flowforge/flowforge/internal/validation"
	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

// Engine drives workflow runs against a fixed WorkflowConfig and Registry.
// Both are treated as immutable and safe to share across concurrent runs
// (spec §5, Shared-resource policy); a new *execctx.Context is created per
// run and never reused.
type Engine struct {
	Config   *config.WorkflowConfig
	Registry *registry.Registry
	Guards   *guard.Evaluator
	Log      *logger.Logger

	// OnNodeEnter, when set, is called synchronously each time the main
	// loop begins processing a non-terminal node — used by the CLI's
	// --watch mode to drive the live progress view without coupling the
	// engine itself to bubbletea.
	OnNodeEnter func(node string)
}

// New wires an Engine from a validated config and registry.
func New(cfg *config.WorkflowConfig, reg *registry.Registry, log *logger.Logger) *Engine {
	return &Engine{
		Config:   cfg,
		Registry: reg,
		Guards:   guard.New(reg, log),
		Log:      log,
	}
}

// Validate runs the full validator pipeline over the engine's config (spec
// §6, `validate(config) -> ValidationResult`).
func (e *Engine) Validate(failFast bool) *validation.ValidationResult {
	return validation.Validate(e.Config, e.Registry, failFast)
}

// ValidateOrThrow is Validate, raising a ValidationException if any errors
// were found (spec §6, `validateOrThrow(config)`).
func (e *Engine) ValidateOrThrow(failFast bool) (*validation.ValidationResult, error) {
	return validation.ValidateOrThrow(e.Config, e.Registry, failFast)
}

// ValidateWorkflow narrows validation to a single named workflow (spec §6,
// `validateWorkflow(config, name) -> ValidationResult`).
func (e *Engine) ValidateWorkflow(name string, failFast bool) (*validation.ValidationResult, error) {
	return validation.ValidateWorkflow(e.Config, e.Registry, name, failFast)
}

// Run drives workflowName to completion from its declared root, starting
// from a fresh execution context seeded with initialValues (spec §6,
// `run(workflowName, initialContext) -> StepResult`).
func (e *Engine) Run(ctx context.Context, workflowName string, initialValues map[string]any) model.StepResult {
	wf, ok := e.Config.Workflows[workflowName]
	if !ok {
		return model.Failure(fmt.Sprintf("unknown workflow %q", workflowName))
	}

	run := &runState{
		engine:   e,
		wf:       wf,
		ctx:      execctx.New(ctx, initialValues),
		visited:  make(map[string]bool),
		edgesByFrom: indexEdges(wf.Edges),
	}
	return run.drive(wf.Root)
}

// runState holds the mutable state of one in-flight run: the current node,
// the visited-node stack for cycle detection, and the shared execution
// context (spec §4.C8, "State variables").
type runState struct {
	engine      *Engine
	wf          config.WorkflowDef
	ctx         *execctx.Context
	visited     map[string]bool
	edgesByFrom map[string][]config.EdgeDef
}

func indexEdges(edges []config.EdgeDef) map[string][]config.EdgeDef {
	byFrom := make(map[string][]config.EdgeDef, len(edges))
	for _, e := range edges {
		byFrom[e.From] = append(byFrom[e.From], e)
	}
	return byFrom
}

// drive runs the main loop described in spec §4.C8, starting at node.
func (r *runState) drive(node string) model.StepResult {
	for {
		if config.IsTerminal(node) {
			if node == config.Success {
				return model.Success("workflow reached SUCCESS")
			}
			return model.Failure("workflow reached FAILURE")
		}

		if r.visited[node] {
			return model.Failure(fmt.Sprintf("circular dependency detected at %q", node))
		}
		r.visited[node] = true

		if r.engine.OnNodeEnter != nil {
			r.engine.OnNodeEnter(node)
		}

		def, ok := r.engine.Config.Steps[node]
		if !ok {
			return model.Failure(fmt.Sprintf("no step declared for %q", node))
		}

		skipped := r.stepGuardsFail(node, def)
		if !skipped {
			result, err := r.executeStep(node, def)
			if err != nil {
				return model.Failure(err.Error())
			}
			if !result.Ok {
				return result
			}
		}

		next, result, done := r.selectEdge(node)
		if done {
			return result
		}
		node = next
	}
}

// stepGuardsFail evaluates def.Guards in order; any false guard means the
// step is skipped (spec §4.C8, step 3).
func (r *runState) stepGuardsFail(node string, def config.StepDef) bool {
	for _, g := range def.Guards {
		if !r.engine.Guards.Evaluate(g, r.ctx, r.engine.Config.Steps, r.engine.Config.Defaults, r.engine.Config.Settings) {
			return true
		}
	}
	return false
}

// executeStep resolves, injects, and invokes node's step implementation,
// wrapping the call in the Retry Controller when a retry policy is
// present (spec §4.C8, step 4).
func (r *runState) executeStep(node string, def config.StepDef) (model.StepResult, error) {
	effective, err := merge.Effective(r.engine.Config.Defaults, merge.CategoryStep, node, def.Config)
	if err != nil {
		return model.StepResult{}, flowerrors.NewConfigError(node, "failed to compute effective configuration", err)
	}

	invoke := func() (model.StepResult, error) {
		return r.invokeOnce(node, def.Type, effective)
	}

	if def.Retry == nil {
		return invoke()
	}

	var last model.StepResult
	_, err = retry.Run(r.ctx.Ctx, *def.Retry, func(guardName string) bool {
		return r.engine.Guards.Evaluate(guardName, r.ctx, r.engine.Config.Steps, r.engine.Config.Defaults, r.engine.Config.Settings)
	}, func(ctx context.Context, attempt int) (bool, error) {
		result, invokeErr := invoke()
		last = result
		if invokeErr != nil {
			return false, invokeErr
		}
		return result.Ok, nil
	})
	if err != nil {
		return model.StepResult{}, err
	}
	return last, nil
}

func (r *runState) invokeOnce(node, stepType string, effective config.Tree) (result model.StepResult, err error) {
	instance, resolveErr := r.engine.Registry.ResolveStep(stepType)
	if resolveErr != nil {
		return model.StepResult{}, resolveErr
	}
	// Only pointer instances have settable fields; a value-type step has
	// nothing to inject and runs as constructed.
	if reflect.ValueOf(instance).Kind() == reflect.Ptr {
		if injectErr := inject.Into(instance, r.ctx, effective, r.engine.Config.Settings); injectErr != nil {
			return model.StepResult{}, injectErr
		}
	}
	return r.safeExecute(node, instance)
}

// safeExecute recovers a panic from untrusted step implementation code and
// reports it as a StepFailure rather than crashing the run.
func (r *runState) safeExecute(node string, instance component.Step) (result model.StepResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = flowerrors.NewStepFailure(node, "step panicked", fmt.Errorf("%v", rec))
		}
	}()
	return instance.Execute(r.ctx), nil
}

// selectEdge implements spec §4.C8 step 6: enumerate edges in declaration
// order, choosing the first whose guard passes (or which is unguarded), and
// applying onFailure handling otherwise. The bool return is true when the
// run is finished (either a terminal result or a STOP/dead-end failure).
func (r *runState) selectEdge(node string) (next string, result model.StepResult, done bool) {
	edges := r.edgesByFrom[node]

	for i := 0; i < len(edges); i++ {
		e := edges[i]

		if e.Unguarded() {
			return e.To, model.StepResult{}, false
		}

		if r.engine.Guards.Evaluate(e.Guard, r.ctx, r.engine.Config.Steps, r.engine.Config.Defaults, r.engine.Config.Settings) {
			return e.To, model.StepResult{}, false
		}

		taken, target, stop, failure := r.handleEdgeFailure(e)
		if failure != nil {
			return "", *failure, true
		}
		if taken {
			return target, model.StepResult{}, false
		}
		if stop {
			return "", model.Failure(fmt.Sprintf("edge guard failed (STOP): %s", e.Render())), true
		}
		// SKIP (or RETRY that never passed): fall through to the next edge.
	}

	return "", model.Failure(fmt.Sprintf("No eligible transition from %q", node)), true
}

// handleEdgeFailure applies e.OnFailure when e's guard returned false
// (spec §4.C8, step 6's onFailure handling). taken reports whether this
// edge should be followed after all (target holds the destination); stop
// reports an immediate STOP failure; failure carries a terminal result for
// strategies that resolve directly to one.
func (r *runState) handleEdgeFailure(e config.EdgeDef) (taken bool, target string, stop bool, failure *model.StepResult) {
	policy := e.OnFailure
	if policy == nil {
		return false, "", true, nil // default STOP
	}

	switch policy.Strategy {
	case config.StrategyStop:
		return false, "", true, nil
	case config.StrategySkip:
		return false, "", false, nil
	case config.StrategyAlternative:
		return true, policy.AlternativeTarget, false, nil
	case config.StrategyContinue:
		return true, e.To, false, nil
	case config.StrategyRetry:
		if r.retryGuard(e.Guard, policy) {
			return true, e.To, false, nil
		}
		return false, "", false, nil // gated SKIP: fall through to next edge
	default:
		return false, "", true, nil
	}
}

// retryGuard re-evaluates e's guard up to policy.Attempts times with
// policy.DelayMS between attempts (spec §4.C8 step 6, RETRY strategy).
func (r *runState) retryGuard(guardName string, policy *config.EdgeFailurePolicy) bool {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	retryPolicy := config.RetryConfig{MaxAttempts: attempts, DelayMS: policy.DelayMS}

	ok, _ := retry.Run(r.ctx.Ctx, retryPolicy, nil, func(ctx context.Context, attempt int) (bool, error) {
		return r.engine.Guards.Evaluate(guardName, r.ctx, r.engine.Config.Steps, r.engine.Config.Defaults, r.engine.Config.Settings), nil
	})
	return ok
}
