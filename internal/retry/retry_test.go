package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/config"
)

func TestRunSucceedsOnFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	ok, err := Run(context.Background(), config.RetryConfig{MaxAttempts: 3}, nil, func(ctx context.Context, attempt int) (bool, error) {
		calls++
		require.Equal(t, 1, attempt)
		return true, nil
	})

	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRunRetriesUpToMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	ok, err := Run(context.Background(), config.RetryConfig{MaxAttempts: 3, DelayMS: 1}, nil, func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return false, errors.New("boom")
	})

	require.False(t, ok)
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestRunStopsWhenRetryGuardRejects(t *testing.T) {
	t.Parallel()

	calls := 0
	guardCalls := 0
	policy := config.RetryConfig{MaxAttempts: 5, DelayMS: 1, Guard: "stillBroken"}

	ok, _ := Run(context.Background(), policy, func(name string) bool {
		guardCalls++
		require.Equal(t, "stillBroken", name)
		return false
	}, func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return false, errors.New("boom")
	})

	require.False(t, ok)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, guardCalls)
}

func TestRunGuardNotEvaluatedBeforeFirstAttempt(t *testing.T) {
	t.Parallel()

	guardCalls := 0
	policy := config.RetryConfig{MaxAttempts: 1, Guard: "neverUsed"}

	ok, _ := Run(context.Background(), policy, func(name string) bool {
		guardCalls++
		return true
	}, func(ctx context.Context, attempt int) (bool, error) {
		return false, errors.New("boom")
	})

	require.False(t, ok)
	require.Equal(t, 0, guardCalls)
}

func TestDelayForExponentialBackoffRespectsCap(t *testing.T) {
	t.Parallel()

	policy := config.RetryConfig{
		MaxAttempts: 5,
		DelayMS:     100,
		Backoff:     config.BackoffExponential,
		Multiplier:  2,
		MaxDelayMS:  300,
	}

	require.Equal(t, 100*time.Millisecond, delayFor(policy, 1))
	require.Equal(t, 200*time.Millisecond, delayFor(policy, 2))
	require.Equal(t, 300*time.Millisecond, delayFor(policy, 3)) // would be 400, capped
}

func TestRunObservesContextCancellationDuringDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	ok, err := Run(ctx, config.RetryConfig{MaxAttempts: 3, DelayMS: 50}, nil, func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return false, errors.New("boom")
	})

	require.False(t, ok)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
