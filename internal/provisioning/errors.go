package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/stacktopo/internal/platform/openstack"
)

// StepError names the step and resource whose control-plane call failed.
// The wrapped error keeps the control-plane payload reachable via errors.As.
type StepError struct {
	Step     string
	Kind     openstack.Kind
	Resource string
	Err      error
}

func (e *StepError) Error() string {
	switch {
	case e.Kind == "":
		return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
	case e.Resource == "":
		return fmt.Sprintf("step %s failed on %s: %v", e.Step, e.Kind, e.Err)
	default:
		return fmt.Sprintf("step %s failed on %s %q: %v", e.Step, e.Kind, e.Resource, e.Err)
	}
}

func (e *StepError) Unwrap() error { return e.Err }

// Fail wraps err in a StepError. An err that already carries a StepError is
// returned unchanged so the innermost step and resource win.
func Fail(step string, kind openstack.Kind, resource string, err error) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		return err
	}
	return &StepError{Step: step, Kind: kind, Resource: resource, Err: err}
}

// FailedStep returns the step recorded in err, or "" when err carries none.
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
