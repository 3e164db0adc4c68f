package payment

import "fmt"

// ErrorCode classifies confirmation protocol failures
type ErrorCode string

const (
	// ErrCodeValidation means payment method fields are incomplete or
	// malformed. Recoverable; the session stays where it is.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeCreationFailed means the payment intent could not be created
	ErrCodeCreationFailed ErrorCode = "CREATION_FAILED"

	// ErrCodeNotSuccessful means confirmation returned a non-success status
	ErrCodeNotSuccessful ErrorCode = "NOT_SUCCESSFUL"

	// ErrCodeExpired means the wallet validity window elapsed with no
	// completion signal. Distinct from NOT_SUCCESSFUL so callers can show
	// "session expired" instead of "payment declined".
	ErrCodeExpired ErrorCode = "EXPIRED"

	// ErrCodeCancelled means the user abandoned the attempt
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Error is a typed confirmation protocol failure. Protocols return these as
// values; they never panic across the dispatcher boundary.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a protocol error with an underlying cause
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// FieldError carries a field-level validation failure for a payment method
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
