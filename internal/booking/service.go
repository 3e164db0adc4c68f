package booking

import (
	"context"
	"fmt"
	"time"

	"tourly/internal/payment"
	"tourly/internal/pricing"
	"tourly/pkg/logger"

	"github.com/google/uuid"
)

// CatalogService is the read-only catalog collaborator (to avoid circular dependency)
type CatalogService interface {
	GetTourInfo(ctx context.Context, reference string) (*TourInfo, error)
}

// TourInfo is the slice of catalog data the booking flow consumes
type TourInfo struct {
	Reference        string  `json:"reference"`
	Name             string  `json:"name"`
	BasePackagePrice float64 `json:"base_package_price"`
	DefaultDuration  int     `json:"default_duration_days"`
}

// TripUpdate is a partial mutation of the trip configuration. Nil fields
// are left unchanged.
type TripUpdate struct {
	TravelDate         *time.Time
	DurationDays       *int
	TravelerCount      *int
	AccommodationTier  *string
	TransportTier      *string
	OptionalSelections *[]string
}

// SubmitResult is the outcome of a payment submission. Card submissions
// resolve synchronously into a Record; wallet submissions return the
// pending Payable and resolve later.
type SubmitResult struct {
	Session *Session
	Record  *BookingRecord
	Payable *payment.PayableRequest
}

// Config carries the booking-flow settings out of the shared configuration
type Config struct {
	Currency       string
	OrderRefPrefix string
}

// Service interface defines the contract for the booking orchestration flow
type Service interface {
	CreateSession(ctx context.Context, tourReference string) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, update TripUpdate) (*Session, error)
	ChooseCardPayment(ctx context.Context, id uuid.UUID, card payment.CardDetails, billing payment.BillingDetails) (*Session, error)
	ChooseWalletPayment(ctx context.Context, id uuid.UUID, payerIdentifier string) (*Session, error)
	SubmitPayment(ctx context.Context, id uuid.UUID) (*SubmitResult, error)
	CompleteWalletPayment(ctx context.Context, payableRequestID, externalReference string) (*BookingRecord, error)
	AbortPayment(ctx context.Context, id uuid.UUID) (*Session, error)
	RetryPayment(ctx context.Context, id uuid.UUID) (*Session, error)
	CancelSession(ctx context.Context, id uuid.UUID) (*Session, error)
	GetRecord(ctx context.Context, bookingRef string) (*BookingRecord, error)
}

// service implements the Service interface
type service struct {
	store      SessionStore
	records    Repository
	finalizer  *Finalizer
	dispatcher *payment.Dispatcher
	catalog    CatalogService
	publisher  EventPublisher
	tariff     *pricing.Tariff
	cfg        Config
	logger     *logger.Logger
}

// NewService creates a new booking service instance
func NewService(
	store SessionStore,
	records Repository,
	finalizer *Finalizer,
	dispatcher *payment.Dispatcher,
	catalog CatalogService,
	publisher EventPublisher,
	tariff *pricing.Tariff,
	cfg Config,
) Service {
	return &service{
		store:      store,
		records:    records,
		finalizer:  finalizer,
		dispatcher: dispatcher,
		catalog:    catalog,
		publisher:  publisher,
		tariff:     tariff,
		cfg:        cfg,
		logger:     logger.GetDefault(),
	}
}

// CreateSession starts a fresh booking attempt for one tour
func (s *service) CreateSession(ctx context.Context, tourReference string) (*Session, error) {
	tour, err := s.catalog.GetTourInfo(ctx, tourReference)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tour %s: %w", tourReference, err)
	}

	now := time.Now()
	session := &Session{
		ID:               uuid.New(),
		TourReference:    tour.Reference,
		TourName:         tour.Name,
		BasePackagePrice: tour.BasePackagePrice,
		Currency:         s.cfg.Currency,
		OrderReference:   fmt.Sprintf("%s%d", s.cfg.OrderRefPrefix, now.UnixMilli()),
		Trip: TripConfiguration{
			DurationDays:       tour.DefaultDuration,
			TravelerCount:      1,
			AccommodationTier:  pricing.AccommodationStandard,
			TransportTier:      pricing.TransportShared,
			OptionalSelections: []string{},
		},
		Status:    StatusConfiguring,
		CreatedAt: now,
		UpdatedAt: now,
	}
	session.Quote = pricing.ComputeQuote(session.Trip.Selection(), session.BasePackagePrice, s.tariff)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a live session by ID
func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.store.Get(ctx, id)
}

// UpdateTrip applies a partial trip mutation and recomputes the quote
func (s *service) UpdateTrip(ctx context.Context, id uuid.UUID, update TripUpdate) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status == StatusPaymentInProgress {
		return nil, ErrSessionLocked
	}
	if !session.Status.CanMutateTrip() {
		return nil, &InvalidTransitionError{From: session.Status, Action: "update trip configuration"}
	}

	trip := session.Trip
	if update.TravelDate != nil {
		trip.TravelDate = update.TravelDate
	}
	if update.DurationDays != nil {
		trip.DurationDays = *update.DurationDays
	}
	if update.TravelerCount != nil {
		trip.TravelerCount = *update.TravelerCount
	}
	if update.AccommodationTier != nil {
		trip.AccommodationTier = pricing.AccommodationTier(*update.AccommodationTier)
	}
	if update.TransportTier != nil {
		trip.TransportTier = pricing.TransportTier(*update.TransportTier)
	}
	if update.OptionalSelections != nil {
		trip.OptionalSelections = *update.OptionalSelections
	}

	if fieldErrs := trip.Validate(time.Now(), s.tariff); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	session.Trip = trip
	session.Quote = pricing.ComputeQuote(trip.Selection(), session.BasePackagePrice, s.tariff)
	session.UpdatedAt = time.Now()

	// Leaving the configuration step requires a complete configuration;
	// that guard lives here, not in the pricing engine.
	if session.Status == StatusConfiguring && trip.Complete() {
		s.transition(ctx, session, StatusAwaitingPayment, "trip configuration complete")
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ChooseCardPayment attaches a validated card method to the session
func (s *service) ChooseCardPayment(ctx context.Context, id uuid.UUID, card payment.CardDetails, billing payment.BillingDetails) (*Session, error) {
	return s.chooseMethod(ctx, id, payment.NewCardMethod(card, billing))
}

// ChooseWalletPayment attaches a validated wallet method to the session
func (s *service) ChooseWalletPayment(ctx context.Context, id uuid.UUID, payerIdentifier string) (*Session, error) {
	return s.chooseMethod(ctx, id, payment.NewWalletMethod(payerIdentifier))
}

func (s *service) chooseMethod(ctx context.Context, id uuid.UUID, method *payment.Method) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status == StatusPaymentInProgress {
		return nil, ErrSessionLocked
	}
	if !session.Status.CanChoosePayment() {
		return nil, &InvalidTransitionError{From: session.Status, Action: "choose payment method"}
	}

	// Validation failure keeps the session in AWAITING_PAYMENT and reports
	// field-level errors; it does not transition.
	if fieldErrs := method.Validate(time.Now()); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	session.Method = method
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitPayment moves the session into the payment protocol. Invoked at
// most once per attempt; the session is locked for its duration.
func (s *service) SubmitPayment(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status == StatusPaymentInProgress {
		return nil, ErrSessionLocked
	}
	if !session.Status.CanSubmit() {
		return nil, &InvalidTransitionError{From: session.Status, Action: "submit payment"}
	}
	if session.Method == nil {
		return nil, &ValidationError{Fields: []payment.FieldError{
			{Field: "method", Message: "a payment method must be chosen before submitting"},
		}}
	}

	// Lock the session before the protocol runs; mutations are rejected
	// from here until a protocol outcome is observed.
	s.transition(ctx, session, StatusPaymentInProgress, "payment submitted")
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	outcome, perr := s.dispatcher.Submit(ctx, payment.SubmitRequest{
		Amount:         session.Quote.Total,
		Currency:       session.Currency,
		OrderReference: session.OrderReference,
		OwnerRef:       session.ID.String(),
		Method:         session.Method,
		OnWalletExpire: s.handleWalletExpiry,
	})
	if perr != nil {
		s.transition(ctx, session, StatusFailed, string(perr.Code))
		session.Attempt = nil
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
		return nil, perr
	}

	switch session.Method.Kind {
	case payment.KindCard:
		session.PaymentReference = outcome.Confirmed.Reference
		s.transition(ctx, session, StatusPaid, "card payment confirmed")
		session.Attempt = nil
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}

		record, err := s.finalizer.Finalize(ctx, session)
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Session: session, Record: record}, nil

	default: // wallet
		session.Attempt = outcome.Attempt
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
		if err := s.store.IndexPayable(ctx, outcome.Payable.PayableRequestID, session.ID); err != nil {
			return nil, err
		}
		return &SubmitResult{Session: session, Payable: outcome.Payable}, nil
	}
}

// CompleteWalletPayment applies the external wallet completion signal. The
// first signal before the deadline wins; duplicates return the already
// finalized record.
func (s *service) CompleteWalletPayment(ctx context.Context, payableRequestID, externalReference string) (*BookingRecord, error) {
	sessionID, err := s.store.LookupPayable(ctx, payableRequestID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case StatusPaid:
		// Duplicate signal after a successful completion; idempotent
		return s.records.GetBySessionID(ctx, session.ID)

	case StatusCancelled:
		// Late success after cancellation. Terminal states are never
		// reopened; surface the signal for reconciliation instead.
		s.reconcile(ctx, session, payableRequestID, externalReference, "completion signal after cancellation")
		return nil, payment.NewError(payment.ErrCodeCancelled, "session was cancelled before completion", nil)

	case StatusExpired:
		return nil, payment.NewError(payment.ErrCodeExpired, "payment window expired before completion", nil)

	case StatusPaymentInProgress:
		confirmed, perr := s.dispatcher.CompleteWallet(payableRequestID, externalReference, time.Now())
		if perr != nil {
			if perr.Code == payment.ErrCodeExpired {
				s.transition(ctx, session, StatusExpired, "wallet deadline reached")
				session.Attempt = nil
				if err := s.store.Save(ctx, session); err != nil {
					return nil, err
				}
			}
			return nil, perr
		}

		session.PaymentReference = confirmed.Reference
		s.transition(ctx, session, StatusPaid, "wallet payment confirmed")
		session.Attempt = nil
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
		return s.finalizer.Finalize(ctx, session)

	default:
		return nil, &InvalidTransitionError{From: session.Status, Action: "complete wallet payment"}
	}
}

// AbortPayment abandons a running wallet countdown and returns the session
// to AWAITING_PAYMENT with no attempt retained
func (s *service) AbortPayment(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status != StatusPaymentInProgress || session.Attempt == nil ||
		session.Attempt.Protocol != payment.KindWallet {
		return nil, &InvalidTransitionError{From: session.Status, Action: "abort payment"}
	}

	s.dispatcher.AbandonWallet(session.Attempt.PayableRequestID)
	s.transition(ctx, session, StatusAwaitingPayment, "wallet attempt aborted")
	session.Attempt = nil
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RetryPayment starts over from AWAITING_PAYMENT after a failed or expired
// attempt. User-initiated only; nothing retries automatically.
func (s *service) RetryPayment(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !session.Status.CanRetry() {
		return nil, &InvalidTransitionError{From: session.Status, Action: "retry payment"}
	}

	s.transition(ctx, session, StatusAwaitingPayment, "retry requested")
	session.Attempt = nil
	session.PaymentReference = ""
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CancelSession cancels the booking attempt. Cancellation from the payment
// step also signals the active protocol to abandon its attempt.
func (s *service) CancelSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !session.Status.CanCancel() {
		return nil, &InvalidTransitionError{From: session.Status, Action: "cancel session"}
	}

	if session.Status == StatusPaymentInProgress && session.Attempt != nil &&
		session.Attempt.Protocol == payment.KindWallet {
		s.dispatcher.AbandonWallet(session.Attempt.PayableRequestID)
	}

	s.transition(ctx, session, StatusCancelled, "user cancellation")
	session.Attempt = nil
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetRecord retrieves a finalized booking record by its reference
func (s *service) GetRecord(ctx context.Context, bookingRef string) (*BookingRecord, error) {
	return s.records.GetByBookingRef(ctx, bookingRef)
}

// handleWalletExpiry runs on the countdown's timer goroutine when the
// validity window elapses with no completion signal
func (s *service) handleWalletExpiry(ownerRef string, request *payment.PayableRequest) {
	ctx := context.Background()

	sessionID, err := uuid.Parse(ownerRef)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "wallet expiry for unparseable owner", err, map[string]interface{}{
			"payable_request_id": request.PayableRequestID,
		})
		return
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "wallet expiry for unknown session", err, map[string]interface{}{
			"payable_request_id": request.PayableRequestID,
		})
		return
	}

	if session.Status != StatusPaymentInProgress {
		// Already resolved through another path; nothing to do
		return
	}
	if session.Attempt != nil && session.Attempt.PayableRequestID != request.PayableRequestID {
		return
	}

	s.transition(ctx, session, StatusExpired, "wallet deadline elapsed")
	session.Attempt = nil
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to persist wallet expiry", err, map[string]interface{}{
			"session_id": session.ID.String(),
		})
	}
}

// reconcile logs and emits a payment signal that cannot be applied to its
// session anymore. Never silently dropped.
func (s *service) reconcile(ctx context.Context, session *Session, payableRequestID, externalReference, reason string) {
	s.logger.LogPaymentReconciliation(ctx, session.ID.String(), payableRequestID, externalReference, reason)

	if s.publisher == nil {
		return
	}
	note := ReconciliationNote{
		SessionID:         session.ID.String(),
		PayableRequestID:  payableRequestID,
		ExternalReference: externalReference,
		Reason:            reason,
		ReceivedAt:        time.Now(),
	}
	if err := s.publisher.PublishPaymentReconciliation(ctx, note); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish reconciliation note", err, map[string]interface{}{
			"session_id": session.ID.String(),
		})
	}
}

// transition applies a state change in memory and logs it. Callers persist.
func (s *service) transition(ctx context.Context, session *Session, to Status, reason string) {
	from := session.Status
	session.Status = to
	session.UpdatedAt = time.Now()
	s.logger.LogSessionTransition(ctx, session.ID.String(), from.String(), to.String(), reason)
}
