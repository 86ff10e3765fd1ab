package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errHostRequired = errors.New("host is required")
	errPortInvalid  = errors.New("port must be a number between 1 and 65535")
	errNameRequired = errors.New("name is required")
	errNameInvalid  = errors.New("name may only contain letters, digits, '-', '_' and '.'")
	errCIDRRequired = errors.New("CIDR is required")
	errCIDRInvalid  = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
)
