// Package guards provides the built-in reference Guard implementations
// (spec §12, Supplemented Features: "built-in step and guard catalog").
package guards

import (
	"fmt"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/execctx"
)

// Always evaluates to true unconditionally.
type Always struct{}

func (Always) Evaluate(ctx *execctx.Context) bool { return true }

// Never evaluates to false unconditionally.
type Never struct{}

func (Never) Evaluate(ctx *execctx.Context) bool { return false }

// ContextEquals compares the context value at Key against Equals,
// formatting both as strings for the comparison so numeric and string
// context values compare predictably.
type ContextEquals struct {
	Key    string `config:"key,required"`
	Equals string `config:"equals,required"`
}

func (g *ContextEquals) Evaluate(ctx *execctx.Context) bool {
	v, ok := ctx.Get(g.Key)
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", v) == g.Equals
}

// ContextTruthy reports whether the context value at Key is a non-zero,
// non-empty, non-false value.
type ContextTruthy struct {
	Key string `config:"key,required"`
}

func (g *ContextTruthy) Evaluate(ctx *execctx.Context) bool {
	v, ok := ctx.Get(g.Key)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return v != nil
	}
}

// Factories returns every built-in guard factory in declaration order, for
// registration via registry.ScanGuards.
func Factories() []component.GuardFactory {
	return []component.GuardFactory{
		func() component.Guard { return Always{} },
		func() component.Guard { return Never{} },
		func() component.Guard { return &ContextEquals{} },
		func() component.Guard { return &ContextTruthy{} },
	}
}
