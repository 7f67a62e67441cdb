package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewConfigError("workflows.deploy.edges[0].to", "references unknown step", underlying)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "workflows.deploy.edges[0].to", configErr.Location)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "workflows.deploy.edges[0].to")
}

func TestResolutionErrorIdentifiesCategoryAndName(t *testing.T) {
	t.Parallel()

	err := NewResolutionError("guard", "auditRequired")

	var resolutionErr *ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	require.Equal(t, "guard", resolutionErr.Category)
	require.Equal(t, "auditRequired", resolutionErr.Name)
	require.Contains(t, err.Error(), "auditRequired")
}

func TestInjectionErrorIncludesFieldContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("cannot parse \"abc\" as int")
	err := NewInjectionError("retryStep", "MaxAttempts", "coercion failed", underlying)

	var injectionErr *InjectionError
	require.ErrorAs(t, err, &injectionErr)
	require.Equal(t, "retryStep", injectionErr.Component)
	require.Equal(t, "MaxAttempts", injectionErr.Field)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestStepFailureIncludesStepID(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewStepFailure("install_git", "apply failed", underlying)

	var stepErr *StepFailure
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "install_git", stepErr.StepID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestGuardFaultNeverLeavesGuardPackageUnwrapped(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("nil pointer")
	err := NewGuardFault("eventuallyTrue", underlying)

	var guardErr *GuardFault
	require.ErrorAs(t, err, &guardErr)
	require.Equal(t, "eventuallyTrue", guardErr.Guard)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestGraphFaultDescribesNode(t *testing.T) {
	t.Parallel()

	err := NewGraphFault("process", "no eligible transition")

	var graphErr *GraphFault
	require.ErrorAs(t, err, &graphErr)
	require.Equal(t, "process", graphErr.Node)
	require.Contains(t, err.Error(), "no eligible transition")
}

func TestValidationExceptionCarriesResult(t *testing.T) {
	t.Parallel()

	type fakeResult struct{ Errors []string }
	result := &fakeResult{Errors: []string{"CYCLE_DETECTED"}}

	err := NewValidationException(result)

	var valErr *ValidationException
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, result, valErr.Result)
}
