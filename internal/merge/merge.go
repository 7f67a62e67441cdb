// Package merge implements the Config Merger (spec §4.C2): the effective
// configuration for a component of logical name N in category cat is the
// deep merge of defaults[cat], defaults[N], and an inline config tree, in
// that precedence order. settings is deliberately excluded from the merge —
// it is exposed separately, addressable by dotted path (spec §4.C2, point 1).
package merge

import (
	"dario.cat/mergo"

	"github.com/flowforge/flowforge/internal/config"
)

// Category names a defaults scope shared by every component of that kind.
type Category string

const (
	CategoryStep  Category = "step"
	CategoryGuard Category = "guard"
)

// Effective computes the effective configuration tree for a component named
// logicalName in category cat. defaults is the WorkflowConfig's raw
// defaults map; inline is the component's own StepDef.Config (or the guard
// equivalent). The merge is pure: none of the inputs are mutated, and later
// layers override earlier ones key-wise, recursively for nested maps, and
// wholesale for scalars and lists (spec §4.C2, Deep-merge policy).
func Effective(defaults map[string]config.Tree, cat Category, logicalName string, inline config.Tree) (config.Tree, error) {
	result := config.Tree{}

	layers := []config.Tree{
		defaults[string(cat)],
		defaults[logicalName],
		inline,
	}

	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		cloned := deepClone(layer)
		if err := mergo.Merge(&result, cloned, mergo.WithOverride); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// deepClone produces a value-independent copy of a Tree so that mergo's
// merge (which may retain references into its source) can never let a
// caller observe a later mutation of the effective map bleed back into the
// WorkflowConfig's own defaults/config trees.
func deepClone(t config.Tree) config.Tree {
	out := make(config.Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case config.Tree:
		return deepClone(vv)
	case map[string]any:
		return deepClone(config.Tree(vv))
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
