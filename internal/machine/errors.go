package machine

import "errors"

// Domain errors for the machine package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, machine.ErrUnknownKind) {
//	    // handle unregistered bundle
//	}
var (
	// ErrInvalidConfiguration is returned when machine construction violates
	// the capability invariants (missing brew, duplicate capability, empty
	// identity). Fatal to the construction call, not to the process.
	ErrInvalidConfiguration = errors.New("machine: invalid configuration")

	// ErrUnknownKind is returned when the factory is given a bundle name
	// that has not been registered.
	ErrUnknownKind = errors.New("machine: unknown kind")

	// ErrKindExists is returned when registering a bundle under a name
	// that is already taken.
	ErrKindExists = errors.New("machine: kind already registered")
)
