package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/execctx"
	"github.com/flowforge/flowforge/internal/model"
	"github.com/flowforge/flowforge/internal/registry"
)

// flakyStep fails every invocation before succeedsOnAttempt, matching spec
// §8 scenario S4 (action succeeds on attempt 3).
type flakyStep struct {
	attempt           *int
	succeedsOnAttempt int
}

func (s flakyStep) Execute(ctx *execctx.Context) model.StepResult {
	*s.attempt++
	if *s.attempt >= s.succeedsOnAttempt {
		return model.Success("recovered")
	}
	return model.Failure("transient failure")
}

// TestScenarioS4ExponentialBackoffStepRetry exercises spec §8 S4 end to end
// through the engine: step A has retry{maxAttempts=3, delay=1,
// backoff=EXPONENTIAL, multiplier=2, maxDelay=10} and its action succeeds on
// the third attempt. Expected total elapsed delay is at least 1ms + 2ms =
// 3ms (the two waits between attempts 1→2 and 2→3), uncapped since neither
// wait reaches the 10ms maxDelay.
func TestScenarioS4ExponentialBackoffStepRetry(t *testing.T) {
	t.Parallel()

	attempt := 0
	reg := registry.New(nil)
	require.NoError(t, reg.RegisterStep("flaky", func() component.Step {
		return flakyStep{attempt: &attempt, succeedsOnAttempt: 3}
	}))

	cfg := &config.WorkflowConfig{
		Steps: map[string]config.StepDef{
			"A": {
				Type: "flaky",
				Retry: &config.RetryConfig{
					MaxAttempts: 3,
					DelayMS:     1,
					Backoff:     config.BackoffExponential,
					Multiplier:  2,
					MaxDelayMS:  10,
				},
			},
		},
		Workflows: map[string]config.WorkflowDef{
			"main": {
				Root: "A",
				Edges: []config.EdgeDef{
					{From: "A", To: config.Success},
				},
			},
		},
	}

	e := New(cfg, reg, nil)

	start := time.Now()
	result := e.Run(context.Background(), "main", nil)
	elapsed := time.Since(start)

	require.True(t, result.Ok)
	require.Equal(t, 3, attempt)
	require.GreaterOrEqual(t, elapsed, 3*time.Millisecond)
	require.LessOrEqual(t, elapsed, 50*time.Millisecond)
}
