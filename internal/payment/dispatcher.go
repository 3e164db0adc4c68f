package payment

import (
	"context"
	"time"
)

// SubmitRequest carries a priced, validated payment submission into the
// dispatcher. OwnerRef is an opaque reference to the submitting session,
// echoed back on asynchronous outcomes.
type SubmitRequest struct {
	Amount         float64
	Currency       string
	OrderReference string
	OwnerRef       string
	Method         *Method

	// OnWalletExpire fires if a wallet countdown elapses unresolved.
	// Ignored for card submissions.
	OnWalletExpire ExpireFunc
}

// SubmitOutcome is the dispatcher's answer. Card submissions resolve
// synchronously and carry Confirmed; wallet submissions return a pending
// Payable whose outcome arrives later via Complete or expiry.
type SubmitOutcome struct {
	Confirmed *ConfirmedPayment
	Attempt   *Attempt
	Payable   *PayableRequest
}

// Dispatcher selects and drives one confirmation protocol per submission,
// keyed once on the payment method variant.
type Dispatcher struct {
	card   *CardProtocol
	wallet *WalletProtocol
}

// NewDispatcher creates a dispatcher over the two confirmation protocols
func NewDispatcher(card *CardProtocol, wallet *WalletProtocol) *Dispatcher {
	return &Dispatcher{
		card:   card,
		wallet: wallet,
	}
}

// Submit runs the protocol matching the method variant. The method must
// already have passed Validate; the dispatcher does not re-validate.
func (d *Dispatcher) Submit(ctx context.Context, req SubmitRequest) (*SubmitOutcome, *Error) {
	switch req.Method.Kind {
	case KindCard:
		confirmed, attempt, perr := d.card.Run(ctx, CardRequest{
			Amount:         req.Amount,
			Currency:       req.Currency,
			OrderReference: req.OrderReference,
			Card:           *req.Method.Card,
			Billing:        *req.Method.Billing,
		})
		if perr != nil {
			return &SubmitOutcome{Attempt: attempt}, perr
		}
		return &SubmitOutcome{Confirmed: confirmed, Attempt: attempt}, nil

	case KindWallet:
		payable, perr := d.wallet.Start(ctx, PayableSpec{
			Amount:          req.Amount,
			Currency:        req.Currency,
			OrderReference:  req.OrderReference,
			PayerIdentifier: req.Method.Wallet.PayerIdentifier,
		}, req.OwnerRef, req.OnWalletExpire)
		if perr != nil {
			return nil, perr
		}

		attempt := &Attempt{
			Protocol:         KindWallet,
			PayableRequestID: payable.PayableRequestID,
			IssuedAt:         timePtr(payable.IssuedAt),
			ExpiresAt:        timePtr(payable.ExpiresAt),
		}
		return &SubmitOutcome{Attempt: attempt, Payable: payable}, nil

	default:
		return nil, NewError(ErrCodeValidation, "unknown payment method", nil)
	}
}

// CompleteWallet resolves a pending wallet attempt with an external signal
func (d *Dispatcher) CompleteWallet(payableRequestID, externalReference string, now time.Time) (*ConfirmedPayment, *Error) {
	return d.wallet.Complete(payableRequestID, externalReference, now)
}

// AbandonWallet tears down a pending wallet attempt without side effects
func (d *Dispatcher) AbandonWallet(payableRequestID string) bool {
	return d.wallet.Abandon(payableRequestID)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
