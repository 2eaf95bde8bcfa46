package workflow

import "errors"

var (
	// ErrNotFound is returned when the application does not exist
	ErrNotFound = errors.New("application not found")

	// ErrForbidden is returned when the actor lacks role or region authorization
	ErrForbidden = errors.New("action not permitted for actor")

	// ErrInvalidTransition is returned when an action is not legal for the
	// current state, including races lost at commit time
	ErrInvalidTransition = errors.New("invalid state transition")
)
