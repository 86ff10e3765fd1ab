package provisioning

import (
	"fmt"
)

// ValidationPhase runs the configuration checks before any control-plane
// call. Warnings are reported as events and do not stop the run.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return StepValidation
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[%s] Running pre-flight validation...", StepValidation)

	warnings, err := ctx.Config.Validate()
	for _, w := range warnings {
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Step:    StepValidation,
			Message: w,
		})
	}
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx.Observer.Printf("[%s] Validation passed", StepValidation)
	return nil
}
