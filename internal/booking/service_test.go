package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tourly/internal/payment"
	"tourly/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory Repository enforcing the one-record-per-session
// constraint the database carries in production
type memRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*BookingRecord
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[uuid.UUID]*BookingRecord)}
}

func (r *memRepo) Create(ctx context.Context, record *BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.SessionID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	record.ID = uuid.New()
	r.records[record.SessionID] = record
	return nil
}

func (r *memRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[sessionID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (r *memRepo) GetByBookingRef(ctx context.Context, bookingRef string) (*BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.BookingRef == bookingRef {
			return record, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// fakeCatalog serves one known tour
type fakeCatalog struct{}

func (f *fakeCatalog) GetTourInfo(ctx context.Context, reference string) (*TourInfo, error) {
	if reference != "bali-discovery" {
		return nil, ErrTourNotFound
	}
	return &TourInfo{
		Reference:        "bali-discovery",
		Name:             "Bali Discovery",
		BasePackagePrice: 2500,
		DefaultDuration:  7,
	}, nil
}

// capturePublisher records everything published
type capturePublisher struct {
	mu        sync.Mutex
	confirmed []*BookingRecord
	notes     []ReconciliationNote
}

func (p *capturePublisher) PublishBookingConfirmed(ctx context.Context, record *BookingRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, record)
	return nil
}

func (p *capturePublisher) PublishPaymentReconciliation(ctx context.Context, note ReconciliationNote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, note)
	return nil
}

func (p *capturePublisher) reconciliations() []ReconciliationNote {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ReconciliationNote(nil), p.notes...)
}

// scriptedCardGateway lets tests choose the confirmation outcome
type scriptedCardGateway struct {
	confirmStatus string
}

func (g *scriptedCardGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	return &payment.Intent{PaymentID: "PAY_t", PaymentIntentID: "PI_t", Status: "requires_confirmation"}, nil
}

func (g *scriptedCardGateway) ConfirmIntent(ctx context.Context, paymentID, paymentIntentID string) (*payment.Confirmation, error) {
	return &payment.Confirmation{Status: g.confirmStatus, TransactionID: "TXN_t"}, nil
}

type testEnv struct {
	service   Service
	repo      *memRepo
	publisher *capturePublisher
}

func newTestEnv(t *testing.T, cardStatus string, walletValidity time.Duration) *testEnv {
	t.Helper()

	repo := newMemRepo()
	publisher := &capturePublisher{}
	finalizer := NewFinalizer(repo, publisher)

	dispatcher := payment.NewDispatcher(
		payment.NewCardProtocol(&scriptedCardGateway{confirmStatus: cardStatus}, time.Millisecond),
		payment.NewWalletProtocol(payment.NewSimulatedWalletGateway(walletValidity)),
	)

	svc := NewService(
		NewMemoryStore(),
		repo,
		finalizer,
		dispatcher,
		&fakeCatalog{},
		publisher,
		pricing.DefaultTariff(),
		Config{Currency: "USD", OrderRefPrefix: "TRB"},
	)

	return &testEnv{service: svc, repo: repo, publisher: publisher}
}

func futureDate() *time.Time {
	d := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	return &d
}

// configureSession drives a fresh session to AwaitingPayment with the
// luxury/private configuration
func configureSession(t *testing.T, svc Service) *Session {
	t.Helper()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "bali-discovery")
	require.NoError(t, err)
	require.Equal(t, StatusConfiguring, session.Status)

	travelers := 2
	accommodation := "luxury"
	transport := "private"
	session, err = svc.UpdateTrip(ctx, session.ID, TripUpdate{
		TravelDate:        futureDate(),
		TravelerCount:     &travelers,
		AccommodationTier: &accommodation,
		TransportTier:     &transport,
	})
	require.NoError(t, err)
	require.Equal(t, StatusAwaitingPayment, session.Status)
	return session
}

func chooseValidCard(t *testing.T, svc Service, id uuid.UUID) {
	t.Helper()
	_, err := svc.ChooseCardPayment(context.Background(), id,
		payment.CardDetails{Number: "4242424242424242", Expiry: "12/28", CVV: "123", HolderName: "Ada Lovelace"},
		payment.BillingDetails{Country: "GB", PostalCode: "SW1A 1AA"})
	require.NoError(t, err)
}

func TestCreateSession_Defaults(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()

	session, err := env.service.CreateSession(ctx, "bali-discovery")
	require.NoError(t, err)

	assert.Equal(t, StatusConfiguring, session.Status)
	assert.Equal(t, "USD", session.Currency)
	assert.Equal(t, "Bali Discovery", session.TourName)
	assert.Equal(t, 7, session.Trip.DurationDays)
	assert.Equal(t, 1, session.Trip.TravelerCount)
	assert.Regexp(t, `^TRB\d+$`, session.OrderReference)
	// 2500×1 + 50×7 standard shared
	assert.Equal(t, 2850.0, session.Quote.Total)
}

func TestCreateSession_UnknownTour(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)

	_, err := env.service.CreateSession(context.Background(), "atlantis-cruise")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestUpdateTrip_RecomputesQuoteAndAdvances(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)

	session := configureSession(t, env.service)

	// 2500×2 + 200×7 + 100×7
	assert.Equal(t, 5000.0, session.Quote.BasePortion)
	assert.Equal(t, 1400.0, session.Quote.AccommodationPortion)
	assert.Equal(t, 700.0, session.Quote.TransportPortion)
	assert.Equal(t, 7100.0, session.Quote.Total)
}

func TestUpdateTrip_ValidationKeepsState(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()

	session, err := env.service.CreateSession(ctx, "bali-discovery")
	require.NoError(t, err)

	bad := "underwater"
	_, err = env.service.UpdateTrip(ctx, session.ID, TripUpdate{AccommodationTier: &bad})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "accommodation_tier", validationErr.Fields[0].Field)

	// Session unchanged
	reloaded, err := env.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfiguring, reloaded.Status)
	assert.Equal(t, pricing.AccommodationStandard, reloaded.Trip.AccommodationTier)
}

func TestChooseCardPayment_InvalidFieldsReported(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	session := configureSession(t, env.service)

	_, err := env.service.ChooseCardPayment(context.Background(), session.ID,
		payment.CardDetails{Number: "1234", Expiry: "99/99", CVV: "1", HolderName: ""},
		payment.BillingDetails{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Fields)

	reloaded, err := env.service.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, reloaded.Status)
	assert.Nil(t, reloaded.Method)
}

func TestSubmitPayment_RequiresMethod(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	session := configureSession(t, env.service)

	_, err := env.service.SubmitPayment(context.Background(), session.ID)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "method", validationErr.Fields[0].Field)
}

func TestSubmitPayment_FromConfiguringRejected(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()

	session, err := env.service.CreateSession(ctx, "bali-discovery")
	require.NoError(t, err)

	_, err = env.service.SubmitPayment(ctx, session.ID)

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusConfiguring, transitionErr.From)
}

func TestCardPayment_SucceedsAndFinalizes(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)
	chooseValidCard(t, env.service, session.ID)

	result, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, result.Session.Status)
	require.NotNil(t, result.Record)
	assert.Equal(t, "TXN_t", result.Record.PaymentReference)
	assert.Equal(t, 7100.0, result.Record.TotalPrice)
	assert.Equal(t, "CARD", result.Record.PaymentMethod)
	assert.Regexp(t, `^TUR-\d{8}-[A-Z]{6}$`, result.Record.BookingRef)

	// Retrievable by reference
	fetched, err := env.service.GetRecord(ctx, result.Record.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, result.Record.BookingRef, fetched.BookingRef)
	assert.Equal(t, 1, env.repo.count())
}

func TestCardPayment_NonSuccessStatusFailsSession(t *testing.T) {
	env := newTestEnv(t, "failed", time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)
	chooseValidCard(t, env.service, session.ID)

	_, err := env.service.SubmitPayment(ctx, session.ID)

	var perr *payment.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, payment.ErrCodeNotSuccessful, perr.Code)

	reloaded, err := env.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, reloaded.Status)
	assert.Equal(t, 0, env.repo.count())

	// Retry returns to AwaitingPayment with the chosen method intact
	reloaded, err = env.service.RetryPayment(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, reloaded.Status)
	assert.NotNil(t, reloaded.Method)
	assert.Nil(t, reloaded.Attempt)
}

func TestMutationRejectedWhilePaymentInProgress(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)

	_, err := env.service.ChooseWalletPayment(ctx, session.ID, "traveler@wallet.example")
	require.NoError(t, err)

	result, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Payable)
	assert.Equal(t, StatusPaymentInProgress, result.Session.Status)

	days := 10
	_, err = env.service.UpdateTrip(ctx, session.ID, TripUpdate{DurationDays: &days})
	assert.ErrorIs(t, err, ErrSessionLocked)

	_, err = env.service.ChooseWalletPayment(ctx, session.ID, "other@wallet.example")
	assert.ErrorIs(t, err, ErrSessionLocked)

	_, err = env.service.SubmitPayment(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionLocked)
}

func TestWalletPayment_CompletedBeforeDeadline(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)

	_, err := env.service.ChooseWalletPayment(ctx, session.ID, "traveler@wallet.example")
	require.NoError(t, err)

	result, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)
	payableID := result.Payable.PayableRequestID

	record, err := env.service.CompleteWalletPayment(ctx, payableID, "WTXN_ext")
	require.NoError(t, err)
	assert.Equal(t, "WTXN_ext", record.PaymentReference)
	assert.Equal(t, "WALLET", record.PaymentMethod)

	reloaded, err := env.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, reloaded.Status)
	assert.Nil(t, reloaded.Attempt)

	// Duplicate signal is idempotent: same record, no second insert
	again, err := env.service.CompleteWalletPayment(ctx, payableID, "WTXN_ext")
	require.NoError(t, err)
	assert.Equal(t, record.BookingRef, again.BookingRef)
	assert.Equal(t, 1, env.repo.count())
}

func TestWalletPayment_ExpiresWithoutSignal(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, 30*time.Millisecond)
	ctx := context.Background()
	session := configureSession(t, env.service)

	_, err := env.service.ChooseWalletPayment(ctx, session.ID, "traveler@wallet.example")
	require.NoError(t, err)

	result, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		reloaded, err := env.service.GetSession(ctx, session.ID)
		return err == nil && reloaded.Status == StatusExpired
	}, time.Second, 10*time.Millisecond)

	// No record was ever created
	assert.Equal(t, 0, env.repo.count())

	// A late signal cannot resurrect the session
	_, err = env.service.CompleteWalletPayment(ctx, result.Payable.PayableRequestID, "WTXN_late")
	var perr *payment.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, payment.ErrCodeExpired, perr.Code)

	// Expired sessions can retry
	reloaded, err := env.service.RetryPayment(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, reloaded.Status)
}

func TestWalletPayment_AbortReturnsToAwaitingPayment(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)

	_, err := env.service.ChooseWalletPayment(ctx, session.ID, "traveler@wallet.example")
	require.NoError(t, err)

	first, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)

	reloaded, err := env.service.AbortPayment(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, reloaded.Status)
	assert.Nil(t, reloaded.Attempt)

	// A fresh submission issues a new payable request
	second, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Payable.PayableRequestID, second.Payable.PayableRequestID)
}

func TestCancelDuringWalletCountdown(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)

	_, err := env.service.ChooseWalletPayment(ctx, session.ID, "traveler@wallet.example")
	require.NoError(t, err)

	result, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)

	cancelled, err := env.service.CancelSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// A success signal after cancellation never reopens the session; it is
	// surfaced for reconciliation instead
	_, err = env.service.CompleteWalletPayment(ctx, result.Payable.PayableRequestID, "WTXN_late")
	var perr *payment.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, payment.ErrCodeCancelled, perr.Code)

	notes := env.publisher.reconciliations()
	require.Len(t, notes, 1)
	assert.Equal(t, session.ID.String(), notes[0].SessionID)
	assert.Equal(t, "WTXN_late", notes[0].ExternalReference)
	assert.Equal(t, 0, env.repo.count())

	reloaded, err := env.service.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, reloaded.Status)
}

func TestCancelFromTerminalStateRejected(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)
	ctx := context.Background()
	session := configureSession(t, env.service)
	chooseValidCard(t, env.service, session.ID)

	_, err := env.service.SubmitPayment(ctx, session.ID)
	require.NoError(t, err)

	_, err = env.service.CancelSession(ctx, session.ID)
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusPaid, transitionErr.From)
}

func TestCompleteWallet_UnknownPayable(t *testing.T) {
	env := newTestEnv(t, payment.StatusSucceeded, time.Minute)

	_, err := env.service.CompleteWalletPayment(context.Background(), "WPR_missing", "WTXN_x")
	assert.ErrorIs(t, err, ErrPayableNotFound)
}
