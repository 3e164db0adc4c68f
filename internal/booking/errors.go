package booking

import (
	"errors"
	"fmt"

	"tourly/internal/payment"
)

var (
	// ErrSessionNotFound is returned when a session id matches nothing in
	// the store (unknown, or already expired out of it)
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrSessionLocked is returned on any mutation attempt while the
	// payment protocol is running. Mutations are rejected, not ignored.
	ErrSessionLocked = errors.New("session is locked while payment is in progress")

	// ErrPayableNotFound is returned when a wallet completion signal
	// references no known payable request
	ErrPayableNotFound = errors.New("payable request not found")

	// ErrNotPaid guards the finalizer: only a paid session can be frozen
	// into a booking record
	ErrNotPaid = errors.New("session is not in the paid state")

	// ErrRecordNotFound is returned when a booking reference matches no
	// finalized record
	ErrRecordNotFound = errors.New("booking record not found")

	// ErrTourNotFound is returned when a session is created against a tour
	// reference the catalog does not carry
	ErrTourNotFound = errors.New("tour not found")
)

// InvalidTransitionError reports an operation attempted from a state that
// does not allow it
type InvalidTransitionError struct {
	From   Status
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Action, e.From)
}

// ValidationError carries the field-level failures that kept a session in
// its current state. Recoverable: fix the fields and try again.
type ValidationError struct {
	Fields []payment.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Fields))
}
