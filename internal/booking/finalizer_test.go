package booking

import (
	"context"
	"testing"
	"time"

	"tourly/internal/payment"
	"tourly/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidSession() *Session {
	travelDate := time.Now().AddDate(0, 2, 0)
	return &Session{
		ID:               uuid.New(),
		TourReference:    "bali-discovery",
		TourName:         "Bali Discovery",
		BasePackagePrice: 2500,
		Currency:         "USD",
		OrderReference:   "TRB1756400000002",
		Trip: TripConfiguration{
			TravelDate:         &travelDate,
			DurationDays:       7,
			TravelerCount:      2,
			AccommodationTier:  pricing.AccommodationLuxury,
			TransportTier:      pricing.TransportPrivate,
			OptionalSelections: []string{"scuba-diving"},
		},
		Quote:            pricing.Quote{Total: 7250},
		Method:           payment.NewCardMethod(payment.CardDetails{}, payment.BillingDetails{}),
		PaymentReference: "TXN_final",
		Status:           StatusPaid,
	}
}

func TestFinalize_CreatesImmutableRecord(t *testing.T) {
	repo := newMemRepo()
	finalizer := NewFinalizer(repo, nil)
	session := paidSession()

	record, err := finalizer.Finalize(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, session.ID, record.SessionID)
	assert.Regexp(t, `^TUR-\d{8}-[A-Z]{6}$`, record.BookingRef)
	assert.Equal(t, 7250.0, record.TotalPrice)
	assert.Equal(t, "TXN_final", record.PaymentReference)
	assert.Equal(t, "luxury", record.AccommodationTier)
	assert.Equal(t, []string{"scuba-diving"}, record.OptionalSelections)
}

func TestFinalize_Idempotent(t *testing.T) {
	repo := newMemRepo()
	publisher := &capturePublisher{}
	finalizer := NewFinalizer(repo, publisher)
	session := paidSession()

	first, err := finalizer.Finalize(context.Background(), session)
	require.NoError(t, err)

	second, err := finalizer.Finalize(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, first.BookingRef, second.BookingRef)
	assert.Equal(t, first.PaymentReference, second.PaymentReference)
	assert.Equal(t, 1, repo.count())
	assert.Len(t, publisher.confirmed, 1)
}

func TestFinalize_RejectsUnpaidSession(t *testing.T) {
	repo := newMemRepo()
	finalizer := NewFinalizer(repo, nil)

	for _, status := range []Status{StatusConfiguring, StatusAwaitingPayment, StatusPaymentInProgress, StatusFailed, StatusExpired, StatusCancelled} {
		session := paidSession()
		session.Status = status

		_, err := finalizer.Finalize(context.Background(), session)
		assert.ErrorIs(t, err, ErrNotPaid, "status %s must not finalize", status)
	}

	assert.Equal(t, 0, repo.count())
}
