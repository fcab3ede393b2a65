package capability

import (
	"errors"
	"fmt"
)

// Domain errors for the capability package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(res.Err, capability.ErrNotSupported) {
//	    // machine lacks this capability
//	}
var (
	// ErrNotSupported is returned when a capability is invoked on a machine
	// that does not possess it. This is always a reported error, never a panic.
	ErrNotSupported = errors.New("capability: not supported")

	// ErrExecutionFailed is returned when a capability ran but did not
	// complete successfully (e.g. a simulated hardware fault).
	ErrExecutionFailed = errors.New("capability: execution failed")
)

// wrapExecution wraps an invocation error in ErrExecutionFailed, preserving
// the original error for errors.Is/As inspection.
func wrapExecution(id Capability, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExecutionFailed, id, err)
}

// NotSupported builds the Result for invoking a capability a machine lacks.
func NotSupported(id Capability) Result {
	return Result{
		Capability: id,
		Err:        fmt.Errorf("%w: %s", ErrNotSupported, id),
	}
}
