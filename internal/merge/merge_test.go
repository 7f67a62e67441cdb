package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/config"
)

func TestEffectivePrecedenceLowestToHighest(t *testing.T) {
	t.Parallel()

	defaults := map[string]config.Tree{
		"step": {
			"timeoutMS": 1000,
			"retries":   3,
		},
		"sendEmail": {
			"timeoutMS": 2000,
		},
	}
	inline := config.Tree{"timeoutMS": 5000}

	effective, err := Effective(defaults, CategoryStep, "sendEmail", inline)
	require.NoError(t, err)

	require.Equal(t, 5000, effective["timeoutMS"]) // inline wins
	require.Equal(t, 3, effective["retries"])       // survives from defaults[cat]
}

func TestEffectiveDeepMergesNestedMaps(t *testing.T) {
	t.Parallel()

	defaults := map[string]config.Tree{
		"step": {
			"smtp": config.Tree{"host": "a", "port": 25},
		},
		"sendEmail": {
			"smtp": config.Tree{"port": 587},
		},
	}

	effective, err := Effective(defaults, CategoryStep, "sendEmail", nil)
	require.NoError(t, err)

	smtp, ok := effective["smtp"].(config.Tree)
	require.True(t, ok)
	require.Equal(t, "a", smtp["host"])
	require.Equal(t, 587, smtp["port"])
}

func TestEffectiveDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	stepDefaults := config.Tree{"smtp": config.Tree{"host": "a"}}
	defaults := map[string]config.Tree{"step": stepDefaults}
	inline := config.Tree{"smtp": config.Tree{"host": "b"}}

	_, err := Effective(defaults, CategoryStep, "sendEmail", inline)
	require.NoError(t, err)

	require.Equal(t, "a", stepDefaults["smtp"].(config.Tree)["host"])
	require.Equal(t, "b", inline["smtp"].(config.Tree)["host"])
}

func TestEffectiveListsReplaceWholesale(t *testing.T) {
	t.Parallel()

	defaults := map[string]config.Tree{
		"step": {"tags": []any{"a", "b"}},
	}
	inline := config.Tree{"tags": []any{"c"}}

	effective, err := Effective(defaults, CategoryStep, "sendEmail", inline)
	require.NoError(t, err)
	require.Equal(t, []any{"c"}, effective["tags"])
}
