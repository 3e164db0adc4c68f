package booking

// Status is the booking session state
type Status string

const (
	StatusConfiguring       Status = "CONFIGURING"
	StatusAwaitingPayment   Status = "AWAITING_PAYMENT"
	StatusPaymentInProgress Status = "PAYMENT_IN_PROGRESS"
	StatusPaid              Status = "PAID"
	StatusFailed            Status = "FAILED"
	StatusExpired           Status = "EXPIRED"
	StatusCancelled         Status = "CANCELLED"
)

// IsValid checks if the session status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusConfiguring, StatusAwaitingPayment, StatusPaymentInProgress,
		StatusPaid, StatusFailed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is defined from s.
// FAILED and EXPIRED are terminal for the attempt but allow a
// user-initiated retry back to AWAITING_PAYMENT.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// CanMutateTrip reports whether the trip configuration may still change
func (s Status) CanMutateTrip() bool {
	return s == StatusConfiguring || s == StatusAwaitingPayment
}

// CanChoosePayment reports whether a payment method may be chosen or replaced
func (s Status) CanChoosePayment() bool {
	return s == StatusAwaitingPayment
}

// CanSubmit reports whether the session may enter the payment protocol
func (s Status) CanSubmit() bool {
	return s == StatusAwaitingPayment
}

// CanRetry reports whether a fresh payment attempt may be started
func (s Status) CanRetry() bool {
	return s == StatusFailed || s == StatusExpired
}

// CanCancel reports whether explicit user cancellation is allowed
func (s Status) CanCancel() bool {
	return s == StatusConfiguring || s == StatusAwaitingPayment || s == StatusPaymentInProgress
}
