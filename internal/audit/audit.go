// Package audit provides a structured audit trail of validation results and
// run outcomes, independent of the operational logger (internal/logger,
// backed by charmbracelet/log). The teacher's go.mod declares
// github.com/rs/zerolog but no teacher file imports it; this package gives
// it the genuine, distinct home SPEC_FULL.md §10.1/§11 describe: a
// write-once-per-event structured trail suited to being shipped or grepped
// independently of human-facing operational logs.
package audit

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/flowforge/flowforge/internal/model"
	"github.com/flowforge/flowforge/internal/validation"
)

// Trail appends structured JSON audit events to an underlying writer.
type Trail struct {
	logger zerolog.Logger
}

// New builds a Trail writing to w. Pass os.Stdout/a file/io.Discard.
func New(w io.Writer) *Trail {
	return &Trail{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// Nop discards every event, for tests and callers that disable auditing.
func Nop() *Trail {
	return New(io.Discard)
}

// ValidationEvent records the outcome of a validator pipeline run.
func (t *Trail) ValidationEvent(result *validation.ValidationResult) {
	if t == nil || result == nil {
		return
	}
	evt := t.logger.Info()
	if !result.Passed() {
		evt = t.logger.Warn()
	}
	evt.
		Str("event", "validation").
		Bool("passed", result.Passed()).
		Int("errorCount", len(result.Errors)).
		Int("warningCount", len(result.Warnings)).
		Strs("workflows", result.Workflows).
		Strs("validators", result.Validators).
		Dur("wallTime", result.WallTime).
		Msg("workflow configuration validated")
}

// RunEvent records the terminal outcome of one workflow run.
func (t *Trail) RunEvent(workflow string, result model.StepResult, elapsed time.Duration) {
	if t == nil {
		return
	}
	evt := t.logger.Info()
	if !result.Ok {
		evt = t.logger.Error()
	}
	evt.
		Str("event", "run").
		Str("workflow", workflow).
		Bool("ok", result.Ok).
		Str("message", result.Message).
		Dur("elapsed", elapsed).
		Msg("workflow run completed")
}
