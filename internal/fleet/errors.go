package fleet

import "errors"

// Domain errors for the fleet package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, fleet.ErrMachineNotFound) {
//	    // handle not found case
//	}
var (
	// ErrMachineNotFound is returned when a machine ID does not exist.
	ErrMachineNotFound = errors.New("fleet: machine not found")

	// ErrMachineExists is returned when creating a machine with an ID that
	// already exists.
	ErrMachineExists = errors.New("fleet: machine already exists")

	// ErrInvalidRecord is returned when record validation fails.
	ErrInvalidRecord = errors.New("fleet: invalid record")
)
