// Package errors defines the error kinds surfaced across the workflow
// engine boundary (see spec §7: ConfigError, ResolutionError, InjectionError,
// StepFailure, GuardFault, GraphFault).
package errors

import "fmt"

// ConfigError represents a malformed or structurally invalid workflow
// configuration detected while loading, schema-validating, or merging it.
type ConfigError struct {
	Location string
	Message  string
	Err      error
}

// NewConfigError constructs a ConfigError for the given dotted config path.
func NewConfigError(location, message string, err error) error {
	return &ConfigError{Location: location, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Location != "" {
		return fmt.Sprintf("config error: %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ResolutionError is returned when a named step or guard has no
// implementation registered at execution time. Fatal for the current run.
type ResolutionError struct {
	Category string // "step" or "guard"
	Name     string
}

// NewResolutionError constructs a ResolutionError.
func NewResolutionError(category, name string) error {
	return &ResolutionError{Category: category, Name: name}
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("resolution error: no %s registered for name %q", e.Category, e.Name)
}

// InjectionError is returned when a required field could not be populated,
// or type coercion failed, while injecting dependencies into a component.
type InjectionError struct {
	Component string
	Field     string
	Message   string
	Err       error
}

// NewInjectionError constructs an InjectionError.
func NewInjectionError(component, field, message string, err error) error {
	return &InjectionError{Component: component, Field: field, Message: message, Err: err}
}

func (e *InjectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("injection error: %s.%s: %s", e.Component, e.Field, e.Message)
}

// Unwrap exposes the underlying error.
func (e *InjectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StepFailure represents a step returning a failure outcome. Subject to
// retry; if unrecovered, terminates the run.
type StepFailure struct {
	StepID  string
	Message string
	Err     error
}

// NewStepFailure constructs a StepFailure.
func NewStepFailure(stepID, message string, err error) error {
	return &StepFailure{StepID: stepID, Message: message, Err: err}
}

func (e *StepFailure) Error() string {
	if e == nil {
		return ""
	}
	if e.StepID != "" {
		return fmt.Sprintf("step %q failed: %s", e.StepID, e.Message)
	}
	return fmt.Sprintf("step failed: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *StepFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GuardFault represents an error thrown while evaluating a guard. It is
// never surfaced to a caller — the guard evaluator coerces it to `false`
// (fail-closed) and logs it. The type exists so that log call sites and
// tests can identify the fault's origin.
type GuardFault struct {
	Guard string
	Err   error
}

// NewGuardFault constructs a GuardFault.
func NewGuardFault(guard string, err error) error {
	return &GuardFault{Guard: guard, Err: err}
}

func (e *GuardFault) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("guard %q faulted: %v", e.Guard, e.Err)
}

// Unwrap exposes the underlying error.
func (e *GuardFault) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GraphFault represents a runtime cycle, dead end, or unreachable
// alternative target encountered while walking the execution graph.
// Terminates the run.
type GraphFault struct {
	Node    string
	Message string
}

// NewGraphFault constructs a GraphFault.
func NewGraphFault(node, message string) error {
	return &GraphFault{Node: node, Message: message}
}

func (e *GraphFault) Error() string {
	if e == nil {
		return ""
	}
	if e.Node != "" {
		return fmt.Sprintf("graph fault at %q: %s", e.Node, e.Message)
	}
	return fmt.Sprintf("graph fault: %s", e.Message)
}

// ValidationException converts a non-empty ValidationResult error set into a
// typed exception, raised by validateOrThrow and by validateWorkflow (see
// spec §6, §7).
//
// Result is declared as `any` to avoid an import cycle with the validation
// package; callers type-assert it back to *validation.ValidationResult.
type ValidationException struct {
	Result any
}

// NewValidationException wraps a validation result that contains errors.
func NewValidationException(result any) error {
	return &ValidationException{Result: result}
}

func (e *ValidationException) Error() string {
	return "workflow configuration failed validation"
}
