package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusSucceeded is the exact success token a card confirmation must carry.
// Anything else, including casing variants, is treated as a failure.
const StatusSucceeded = "succeeded"

// IntentRequest keys the create phase of the card protocol
type IntentRequest struct {
	Amount         float64
	Currency       string
	OrderReference string
	Card           CardDetails
	Billing        BillingDetails
}

// Intent is the gateway's answer to the create phase
type Intent struct {
	PaymentID       string
	PaymentIntentID string
	Status          string
}

// Confirmation is the gateway's answer to the confirm phase
type Confirmation struct {
	Status        string
	TransactionID string
}

// CardGateway models the two idempotent request/response exchanges of the
// card confirmation protocol
type CardGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	ConfirmIntent(ctx context.Context, paymentID, paymentIntentID string) (*Confirmation, error)
}

// PayableSpec keys the issuance of a wallet payable request
type PayableSpec struct {
	Amount          float64
	Currency        string
	OrderReference  string
	PayerIdentifier string
}

// PayableRequest is an externally payable, time-boxed wallet request
type PayableRequest struct {
	PayableRequestID string    `json:"payable_request_id"`
	LaunchURL        string    `json:"launch_url"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// WalletGateway models the issuing side of the wallet protocol. Completion
// arrives out of band, as an external signal, never from this interface.
type WalletGateway interface {
	IssuePayableRequest(ctx context.Context, spec PayableSpec) (*PayableRequest, error)
}

// simulatedCardGateway stands in for a real card payment network. Intents
// always succeed and confirmations always return the success token; failure
// paths are exercised with test doubles.
type simulatedCardGateway struct{}

// NewSimulatedCardGateway returns the built-in card gateway simulation
func NewSimulatedCardGateway() CardGateway {
	return &simulatedCardGateway{}
}

func (g *simulatedCardGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("intent amount must be positive, got %.2f", req.Amount)
	}
	if req.OrderReference == "" {
		return nil, fmt.Errorf("order reference is required")
	}

	return &Intent{
		PaymentID:       "PAY_" + shortID(),
		PaymentIntentID: "PI_" + shortID(),
		Status:          "requires_confirmation",
	}, nil
}

func (g *simulatedCardGateway) ConfirmIntent(ctx context.Context, paymentID, paymentIntentID string) (*Confirmation, error) {
	if paymentID == "" || paymentIntentID == "" {
		return nil, fmt.Errorf("payment id and intent id are required")
	}

	return &Confirmation{
		Status:        StatusSucceeded,
		TransactionID: generateTransactionID(),
	}, nil
}

// simulatedWalletGateway issues payable requests locally instead of calling
// a wallet provider
type simulatedWalletGateway struct {
	validity time.Duration
}

// NewSimulatedWalletGateway returns the built-in wallet gateway simulation
// with a fixed validity window per payable request
func NewSimulatedWalletGateway(validity time.Duration) WalletGateway {
	return &simulatedWalletGateway{validity: validity}
}

func (g *simulatedWalletGateway) IssuePayableRequest(ctx context.Context, spec PayableSpec) (*PayableRequest, error) {
	if spec.Amount <= 0 {
		return nil, fmt.Errorf("payable amount must be positive, got %.2f", spec.Amount)
	}

	id := "WPR_" + shortID()
	now := time.Now()

	return &PayableRequest{
		PayableRequestID: id,
		LaunchURL:        fmt.Sprintf("wallet://pay?request=%s&amount=%.2f&currency=%s", id, spec.Amount, spec.Currency),
		Amount:           spec.Amount,
		Currency:         spec.Currency,
		IssuedAt:         now,
		ExpiresAt:        now.Add(g.validity),
	}, nil
}

// generateTransactionID generates a mock transaction ID
func generateTransactionID() string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(shortID()))
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
