package payment

import (
	"context"
	"sync"
	"time"
)

// ExpireFunc is invoked exactly once when a payable request's countdown
// reaches zero without a completion signal. It runs on the timer goroutine.
type ExpireFunc func(ownerRef string, request *PayableRequest)

// walletAttempt is the live state of one countdown. The timer is owned by
// the attempt and torn down deterministically on any resolution.
type walletAttempt struct {
	request  *PayableRequest
	ownerRef string
	orderRef string
	timer    *time.Timer
	resolved bool
}

// WalletProtocol drives the asynchronous wallet confirmation path: issue a
// time-boxed payable request, then wait for exactly one of {external
// completion signal, countdown expiry, abandonment}.
type WalletProtocol struct {
	gateway WalletGateway

	mu       sync.Mutex
	attempts map[string]*walletAttempt
}

// NewWalletProtocol creates a wallet protocol around an issuing gateway
func NewWalletProtocol(gateway WalletGateway) *WalletProtocol {
	return &WalletProtocol{
		gateway:  gateway,
		attempts: make(map[string]*walletAttempt),
	}
}

// Start issues a payable request and arms its countdown. onExpire fires
// once if the window elapses unresolved; it never fires after a completion
// signal or an abandonment was accepted.
func (p *WalletProtocol) Start(ctx context.Context, spec PayableSpec, ownerRef string, onExpire ExpireFunc) (*PayableRequest, *Error) {
	request, err := p.gateway.IssuePayableRequest(ctx, spec)
	if err != nil {
		return nil, NewError(ErrCodeCreationFailed, "payable request issuance rejected", err)
	}

	attempt := &walletAttempt{
		request:  request,
		ownerRef: ownerRef,
		orderRef: spec.OrderReference,
	}

	p.mu.Lock()
	p.attempts[request.PayableRequestID] = attempt
	attempt.timer = time.AfterFunc(time.Until(request.ExpiresAt), func() {
		p.expire(request.PayableRequestID, onExpire)
	})
	p.mu.Unlock()

	return request, nil
}

// expire resolves an attempt from the timer side
func (p *WalletProtocol) expire(payableRequestID string, onExpire ExpireFunc) {
	p.mu.Lock()
	attempt, ok := p.attempts[payableRequestID]
	if !ok || attempt.resolved {
		p.mu.Unlock()
		return
	}
	attempt.resolved = true
	delete(p.attempts, payableRequestID)
	p.mu.Unlock()

	if onExpire != nil {
		onExpire(attempt.ownerRef, attempt.request)
	}
}

// Complete resolves an attempt with an external completion signal. The
// first of {completion, expiry} wins; a signal landing at or after the
// deadline loses the tie and resolves as expired. A session is never
// confirmed once its deadline is reached.
func (p *WalletProtocol) Complete(payableRequestID, externalReference string, now time.Time) (*ConfirmedPayment, *Error) {
	p.mu.Lock()
	attempt, ok := p.attempts[payableRequestID]
	if !ok || attempt.resolved {
		p.mu.Unlock()
		return nil, NewError(ErrCodeExpired, "payable request is no longer active", nil)
	}

	attempt.resolved = true
	attempt.timer.Stop()
	delete(p.attempts, payableRequestID)
	expired := !now.Before(attempt.request.ExpiresAt)
	p.mu.Unlock()

	if expired {
		return nil, NewError(ErrCodeExpired, "completion signal arrived after the validity window", nil)
	}

	reference := externalReference
	if reference == "" {
		reference = generateTransactionID()
	}

	return &ConfirmedPayment{
		Reference:      reference,
		OrderReference: attempt.orderRef,
		Method:         KindWallet,
		ConfirmedAt:    now,
	}, nil
}

// Abandon tears down an attempt without side effects. Used for user
// cancellation during the countdown; the expiry callback will not fire.
// Returns false when no active attempt existed.
func (p *WalletProtocol) Abandon(payableRequestID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	attempt, ok := p.attempts[payableRequestID]
	if !ok || attempt.resolved {
		return false
	}

	attempt.resolved = true
	attempt.timer.Stop()
	delete(p.attempts, payableRequestID)
	return true
}

// Active reports whether a payable request still has a running countdown
func (p *WalletProtocol) Active(payableRequestID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	attempt, ok := p.attempts[payableRequestID]
	return ok && !attempt.resolved
}
