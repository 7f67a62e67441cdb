package audit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge/internal/model"
	"github.com/flowforge/flowforge/internal/validation"
)

func TestValidationEventWritesPassedOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trail := New(&buf)

	trail.ValidationEvent(&validation.ValidationResult{Workflows: []string{"main"}})

	out := buf.String()
	require.Contains(t, out, `"event":"validation"`)
	require.Contains(t, out, `"passed":true`)
}

func TestValidationEventWritesFailedOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trail := New(&buf)

	trail.ValidationEvent(&validation.ValidationResult{
		Errors: []validation.Finding{{Type: "CYCLE_DETECTED"}},
	})

	require.Contains(t, buf.String(), `"passed":false`)
}

func TestRunEventWritesOkAndMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trail := New(&buf)

	trail.RunEvent("main", model.Success("done"), 5*time.Millisecond)

	out := buf.String()
	require.Contains(t, out, `"event":"run"`)
	require.Contains(t, out, `"workflow":"main"`)
	require.Contains(t, out, `"ok":true`)
}

func TestNopTrailNeverPanics(t *testing.T) {
	t.Parallel()

	trail := Nop()
	require.NotPanics(t, func() {
		trail.ValidationEvent(nil)
		trail.RunEvent("main", model.Failure("boom"), 0)
	})
}
