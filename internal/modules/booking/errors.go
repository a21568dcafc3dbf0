package booking

import "errors"

// Validation failures are local and recoverable: the form stays filled in and
// no network call has happened yet.
var (
	ErrContactIncomplete = errors.New("required contact fields are missing")
	ErrTripIncomplete    = errors.New("trip details are incomplete")
	ErrEmailRequired     = errors.New("a valid email is required for payment")
)

// IsValidationError reports whether err is one of the draft validation
// failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContactIncomplete) ||
		errors.Is(err, ErrTripIncomplete) ||
		errors.Is(err, ErrEmailRequired)
}
