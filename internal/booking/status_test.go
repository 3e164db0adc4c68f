package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusGuards(t *testing.T) {
	assert.True(t, StatusConfiguring.CanMutateTrip())
	assert.True(t, StatusAwaitingPayment.CanMutateTrip())
	assert.False(t, StatusPaymentInProgress.CanMutateTrip())
	assert.False(t, StatusPaid.CanMutateTrip())

	assert.True(t, StatusAwaitingPayment.CanChoosePayment())
	assert.False(t, StatusConfiguring.CanChoosePayment())

	assert.True(t, StatusAwaitingPayment.CanSubmit())
	assert.False(t, StatusPaymentInProgress.CanSubmit())

	assert.True(t, StatusFailed.CanRetry())
	assert.True(t, StatusExpired.CanRetry())
	assert.False(t, StatusPaid.CanRetry())
	assert.False(t, StatusCancelled.CanRetry())

	assert.True(t, StatusPaymentInProgress.CanCancel())
	assert.False(t, StatusPaid.CanCancel())
	assert.False(t, StatusExpired.CanCancel())
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusPaid, StatusFailed, StatusExpired, StatusCancelled} {
		assert.True(t, s.IsTerminal(), "%s", s)
	}
	for _, s := range []Status{StatusConfiguring, StatusAwaitingPayment, StatusPaymentInProgress} {
		assert.False(t, s.IsTerminal(), "%s", s)
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPaymentInProgress.IsValid())
	assert.False(t, Status("REFUNDED").IsValid())
}
