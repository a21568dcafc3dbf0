package payment

import (
	"errors"
	"fmt"
)

var (
	ErrAttemptNotFound    = errors.New("payment attempt not found")
	ErrAttemptSettled     = errors.New("payment attempt already settled")
	ErrSubmissionInFlight = errors.New("another booking submission is still in flight")
	ErrReceiptUnavailable = errors.New("receipt is only available for paid bookings")
)

// RefusedError is a backend that answered but said no: the orchestration
// aborts at that step and the backend's message is shown to the customer.
type RefusedError struct {
	Step    string
	Message string
}

func (e *RefusedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend refused %s step", e.Step)
	}
	return fmt.Sprintf("backend refused %s step: %s", e.Step, e.Message)
}
