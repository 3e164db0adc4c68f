package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCardGateway scripts both phases of the card exchange
type fakeCardGateway struct {
	createErr     error
	confirmErr    error
	confirmStatus string

	createCalls  int
	confirmCalls int
}

func (g *fakeCardGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &Intent{PaymentID: "PAY_test", PaymentIntentID: "PI_test", Status: "requires_confirmation"}, nil
}

func (g *fakeCardGateway) ConfirmIntent(ctx context.Context, paymentID, paymentIntentID string) (*Confirmation, error) {
	g.confirmCalls++
	if g.confirmErr != nil {
		return nil, g.confirmErr
	}
	return &Confirmation{Status: g.confirmStatus, TransactionID: "TXN_test"}, nil
}

func cardRequest() CardRequest {
	return CardRequest{
		Amount:         7100,
		Currency:       "USD",
		OrderReference: "TRB1756400000000",
		Card:           validCard(),
		Billing:        validBilling(),
	}
}

func TestCardProtocol_Succeeds(t *testing.T) {
	gateway := &fakeCardGateway{confirmStatus: StatusSucceeded}
	protocol := NewCardProtocol(gateway, time.Millisecond)

	confirmed, attempt, perr := protocol.Run(context.Background(), cardRequest())

	require.Nil(t, perr)
	require.NotNil(t, confirmed)
	assert.Equal(t, "TXN_test", confirmed.Reference)
	assert.Equal(t, "TRB1756400000000", confirmed.OrderReference)
	assert.Equal(t, KindCard, confirmed.Method)
	assert.Equal(t, PhaseConfirmed, attempt.Phase)
	assert.Equal(t, 1, gateway.createCalls)
	assert.Equal(t, 1, gateway.confirmCalls)
}

func TestCardProtocol_CreateRejected(t *testing.T) {
	gateway := &fakeCardGateway{createErr: errors.New("card declined upstream")}
	protocol := NewCardProtocol(gateway, time.Millisecond)

	confirmed, attempt, perr := protocol.Run(context.Background(), cardRequest())

	assert.Nil(t, confirmed)
	require.NotNil(t, perr)
	assert.Equal(t, ErrCodeCreationFailed, perr.Code)
	assert.Equal(t, PhaseFailed, attempt.Phase)
	assert.Equal(t, 0, gateway.confirmCalls)
}

func TestCardProtocol_NonSuccessStatusFails(t *testing.T) {
	// Anything but the exact success token is a failure, including variants
	for _, status := range []string{"failed", "Succeeded", "SUCCEEDED", "success", "pending", ""} {
		gateway := &fakeCardGateway{confirmStatus: status}
		protocol := NewCardProtocol(gateway, time.Millisecond)

		confirmed, attempt, perr := protocol.Run(context.Background(), cardRequest())

		assert.Nil(t, confirmed, "status %q must not confirm", status)
		require.NotNil(t, perr)
		assert.Equal(t, ErrCodeNotSuccessful, perr.Code)
		assert.Equal(t, PhaseFailed, attempt.Phase)
	}
}

func TestCardProtocol_ConfirmRequestError(t *testing.T) {
	gateway := &fakeCardGateway{confirmErr: errors.New("gateway timeout")}
	protocol := NewCardProtocol(gateway, time.Millisecond)

	confirmed, _, perr := protocol.Run(context.Background(), cardRequest())

	assert.Nil(t, confirmed)
	require.NotNil(t, perr)
	assert.Equal(t, ErrCodeNotSuccessful, perr.Code)
}

func TestCardProtocol_ContextCancelledDuringAuthentication(t *testing.T) {
	gateway := &fakeCardGateway{confirmStatus: StatusSucceeded}
	protocol := NewCardProtocol(gateway, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	confirmed, attempt, perr := protocol.Run(ctx, cardRequest())

	assert.Nil(t, confirmed)
	require.NotNil(t, perr)
	assert.Equal(t, ErrCodeCancelled, perr.Code)
	assert.Equal(t, PhaseFailed, attempt.Phase)
	assert.Equal(t, 0, gateway.confirmCalls)
}
