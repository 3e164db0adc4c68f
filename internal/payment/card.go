package payment

import (
	"context"
	"fmt"
	"time"
)

// Card protocol phases, recorded on the attempt
const (
	PhaseCreated        = "created"
	PhaseAuthenticating = "authenticating"
	PhaseConfirmed      = "confirmed"
	PhaseFailed         = "failed"
)

// ConfirmedPayment is the uniform success outcome of either protocol
type ConfirmedPayment struct {
	Reference      string    `json:"reference"`
	OrderReference string    `json:"order_reference"`
	Method         Kind      `json:"method"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

// Attempt is the protocol-specific record of one confirmation attempt. It
// is owned by the active dispatcher invocation and discarded on any
// terminal outcome.
type Attempt struct {
	Protocol Kind `json:"protocol"`

	// Card fields
	PaymentID       string `json:"payment_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	Phase           string `json:"phase,omitempty"`

	// Wallet fields
	PayableRequestID  string     `json:"payable_request_id,omitempty"`
	IssuedAt          *time.Time `json:"issued_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ExternalReference string     `json:"external_reference,omitempty"`
}

// CardRequest carries everything the card protocol needs for one run
type CardRequest struct {
	Amount         float64
	Currency       string
	OrderReference string
	Card           CardDetails
	Billing        BillingDetails
}

// CardProtocol drives the two-phase synchronous card confirmation exchange:
// create intent, simulated step-up authentication, confirm.
type CardProtocol struct {
	gateway   CardGateway
	authDelay time.Duration
}

// NewCardProtocol creates a card protocol with a fixed authentication delay
func NewCardProtocol(gateway CardGateway, authDelay time.Duration) *CardProtocol {
	return &CardProtocol{
		gateway:   gateway,
		authDelay: authDelay,
	}
}

// Run executes the full card confirmation exchange. The authentication
// phase cannot be skipped or shortened; only context cancellation
// interrupts it.
func (p *CardProtocol) Run(ctx context.Context, req CardRequest) (*ConfirmedPayment, *Attempt, *Error) {
	attempt := &Attempt{Protocol: KindCard}

	// Create phase
	intent, err := p.gateway.CreateIntent(ctx, IntentRequest{
		Amount:         req.Amount,
		Currency:       req.Currency,
		OrderReference: req.OrderReference,
		Card:           req.Card,
		Billing:        req.Billing,
	})
	if err != nil {
		attempt.Phase = PhaseFailed
		return nil, attempt, NewError(ErrCodeCreationFailed, "payment intent creation rejected", err)
	}

	attempt.PaymentID = intent.PaymentID
	attempt.PaymentIntentID = intent.PaymentIntentID
	attempt.Phase = PhaseCreated

	// Authentication phase: simulated 3-D-Secure style step-up
	attempt.Phase = PhaseAuthenticating
	select {
	case <-time.After(p.authDelay):
	case <-ctx.Done():
		attempt.Phase = PhaseFailed
		return nil, attempt, NewError(ErrCodeCancelled, "card authentication interrupted", ctx.Err())
	}

	// Confirm phase
	confirmation, err := p.gateway.ConfirmIntent(ctx, intent.PaymentID, intent.PaymentIntentID)
	if err != nil {
		attempt.Phase = PhaseFailed
		return nil, attempt, NewError(ErrCodeNotSuccessful, "payment confirmation request failed", err)
	}

	if confirmation.Status != StatusSucceeded {
		attempt.Phase = PhaseFailed
		return nil, attempt, NewError(ErrCodeNotSuccessful,
			fmt.Sprintf("payment confirmation returned status %q", confirmation.Status), nil)
	}

	attempt.Phase = PhaseConfirmed
	return &ConfirmedPayment{
		Reference:      confirmation.TransactionID,
		OrderReference: req.OrderReference,
		Method:         KindCard,
		ConfirmedAt:    time.Now(),
	}, attempt, nil
}
