package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterStructValidation(retryConfigStructLevel, RetryConfig{})
		validateInst = v
	})
	return validateInst
}

// retryConfigStructLevel enforces the cross-field invariant that exponential
// backoff requires a multiplier greater than 1 (spec §3, invariant 6).
func retryConfigStructLevel(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(RetryConfig)
	if cfg.IsExponential() && cfg.Multiplier <= 1 {
		sl.ReportError(cfg.Multiplier, "Multiplier", "Multiplier", "gt1whenexponential", "")
	}
}

// ValidateSchema performs struct-tag shape validation on a freshly parsed
// WorkflowConfig: required fields, numeric ranges, enum membership. It does
// not check cross-reference or graph-structural invariants — that is the
// job of the Validator Pipeline (internal/validation), which runs against
// the same WorkflowConfig once it has passed this shape check.
func ValidateSchema(cfg *WorkflowConfig) error {
	if cfg == nil {
		return flowerrors.NewConfigError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertSchemaError(err)
	}

	for name, step := range cfg.Steps {
		if step.Retry != nil {
			if err := v.Struct(step.Retry); err != nil {
				return convertSchemaError(fmt.Errorf("steps.%s.retry: %w", name, err))
			}
		}
	}

	for wfName, wf := range cfg.Workflows {
		for i, edge := range wf.Edges {
			if edge.OnFailure != nil && edge.OnFailure.Strategy == StrategyAlternative &&
				strings.TrimSpace(edge.OnFailure.AlternativeTarget) == "" {
				return flowerrors.NewConfigError(
					fmt.Sprintf("workflows.%s.edges[%d].onFailure.alternativeTarget", wfName, i),
					"alternativeTarget is required when strategy is ALTERNATIVE",
					nil,
				)
			}
		}
	}

	return nil
}

func convertSchemaError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		field := strings.ToLower(strings.ReplaceAll(fe.Namespace(), "WorkflowConfig.", ""))
		return flowerrors.NewConfigError(field, fmt.Sprintf("failed validation for tag %q", fe.Tag()), err)
	}

	return flowerrors.NewConfigError("config", err.Error(), err)
}
