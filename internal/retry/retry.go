// Package retry implements the Retry Controller (spec §4.C7): applying a
// RetryConfig's attempt count, base delay, backoff policy, delay cap, and
// optional retry-gate guard to a retriable action. Delay/cancellation
// handling is grounded on the teacher's internal/engine/executor.go
// timeout pattern (context.WithTimeout + ctx.Err() checks at each wait
// point), generalized from a one-shot step timeout into a bounded retry
// loop.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/flowforge/flowforge/internal/config"
)

// GuardFunc evaluates a named retry-gate guard. Returning false between
// attempts stops the retry loop even if attempts remain (spec §4.C7).
type GuardFunc func(name string) bool

// Attempt is a single invocation of the retriable action. It returns true
// on success.
type Attempt func(ctx context.Context, attemptNumber int) (ok bool, err error)

// Run executes fn under policy, observing ctx for cancellation at each
// delay point. Attempts are numbered starting at 1 (spec invariant: "attempts
// numbered from 1"). The retry-gate guard, when configured, is evaluated
// between attempts — never before the first attempt (spec §8, invariant
// 5/6) — and a false result ends the loop without spending remaining
// attempts.
func Run(ctx context.Context, policy config.RetryConfig, evalGuard GuardFunc, fn Attempt) (ok bool, lastErr error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ok, lastErr = fn(ctx, attempt)
		if ok {
			return true, nil
		}
		if attempt == maxAttempts {
			break
		}

		if policy.HasGuard() && evalGuard != nil && !evalGuard(policy.Guard) {
			break
		}

		delay := delayFor(policy, attempt)
		if !sleep(ctx, delay) {
			return false, ctx.Err()
		}
	}
	return false, lastErr
}

// delayFor computes the wait before the (attempt+1)th try. FIXED backoff
// always waits policy.DelayMS; EXPONENTIAL waits delay * multiplier^(attempt-1),
// capped at policy.MaxDelayMS when that cap is positive.
func delayFor(policy config.RetryConfig, attempt int) time.Duration {
	base := time.Duration(policy.DelayMS) * time.Millisecond
	if !policy.IsExponential() {
		return base
	}

	multiplier := policy.Multiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	factor := math.Pow(multiplier, float64(attempt-1))
	scaled := time.Duration(float64(base) * factor)
	return capDelay(scaled, policy.MaxDelayMS)
}

func capDelay(d time.Duration, maxMS int) time.Duration {
	if maxMS <= 0 {
		return d
	}
	ceiling := time.Duration(maxMS) * time.Millisecond
	if d > ceiling {
		return ceiling
	}
	return d
}

// sleep waits for d or returns false early if ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
