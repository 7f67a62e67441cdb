// Package steps provides the built-in reference Step implementations (spec
// §12, Supplemented Features: "built-in step and guard catalog"). Log, Fail
// and SetContext each demonstrate a dependency-injection binding mechanism
// from spec §4.C3 (explicit config binding or name-match fallback); Noop
// has no fields.
package steps

import (
	"fmt"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/execctx"
	"github.com/flowforge/flowforge/internal/model"
)

// Log records Message as its StepResult, for workflows that want a visible
// marker step in the run's output. Message is bound by explicit config
// binding, falling back to a declared default (spec §4.C3, mechanism 2).
type Log struct {
	Message string `config:"message,default=(no message)"`
}

func (s *Log) Execute(ctx *execctx.Context) model.StepResult {
	return model.Success(s.Message)
}

// Noop succeeds immediately and touches nothing. Used as a placeholder
// step in tests and example workflows.
type Noop struct{}

func (Noop) Execute(ctx *execctx.Context) model.StepResult {
	return model.Success("noop")
}

// SetContext writes Value under Key in the execution context, by
// name-match fallback: an unmarked field whose name matches a config key
// takes the config value (spec §4.C3, mechanism 3).
type SetContext struct {
	Key   string
	Value any
}

func (s *SetContext) Execute(ctx *execctx.Context) model.StepResult {
	ctx.Put(s.Key, s.Value)
	return model.Success(fmt.Sprintf("set %s", s.Key))
}

// Fail always returns a failure outcome carrying Message, demonstrating a
// required explicit config binding with no default.
type Fail struct {
	Message string `config:"message,required"`
}

func (s *Fail) Execute(ctx *execctx.Context) model.StepResult {
	return model.Failure(s.Message)
}

// Factories returns every built-in step factory in declaration order, for
// registration via registry.ScanSteps.
func Factories() []component.StepFactory {
	return []component.StepFactory{
		func() component.Step { return &Log{} },
		func() component.Step { return &Noop{} },
		func() component.Step { return &SetContext{} },
		func() component.Step { return &Fail{} },
	}
}
