package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"tourly/pkg/logger"
)

// EventPublisher is the boundary to dashboards and notifications. The
// finalized BookingRecord is the only artifact that crosses it; no partial
// session state ever does.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, record *BookingRecord) error
	PublishPaymentReconciliation(ctx context.Context, note ReconciliationNote) error
}

// ReconciliationNote describes a payment signal that could not be applied
// to its session and needs out-of-band follow-up
type ReconciliationNote struct {
	SessionID         string    `json:"session_id"`
	PayableRequestID  string    `json:"payable_request_id"`
	ExternalReference string    `json:"external_reference"`
	Reason            string    `json:"reason"`
	ReceivedAt        time.Time `json:"received_at"`
}

// Finalizer freezes paid sessions into immutable booking records
type Finalizer struct {
	repo      Repository
	publisher EventPublisher
	logger    *logger.Logger
}

// NewFinalizer creates a finalizer. The publisher may be nil; records are
// then persisted without emitting the confirmation event.
func NewFinalizer(repo Repository, publisher EventPublisher) *Finalizer {
	return &Finalizer{
		repo:      repo,
		publisher: publisher,
		logger:    logger.GetDefault(),
	}
}

// Finalize creates the booking record for a paid session. Idempotent: a
// second call for the same session returns the existing record, payment
// reference included, and never creates a duplicate.
func (f *Finalizer) Finalize(ctx context.Context, session *Session) (*BookingRecord, error) {
	if session.Status != StatusPaid {
		return nil, ErrNotPaid
	}

	if existing, err := f.repo.GetBySessionID(ctx, session.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing record: %w", err)
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	record := &BookingRecord{
		SessionID:          session.ID,
		BookingRef:         bookingRef,
		TourReference:      session.TourReference,
		TravelDate:         *session.Trip.TravelDate,
		DurationDays:       session.Trip.DurationDays,
		TravelerCount:      session.Trip.TravelerCount,
		AccommodationTier:  session.Trip.AccommodationTier.String(),
		TransportTier:      session.Trip.TransportTier.String(),
		OptionalSelections: session.Trip.OptionalSelections,
		TotalPrice:         session.Quote.Total,
		Currency:           session.Currency,
		PaymentMethod:      session.Method.Kind.String(),
		PaymentReference:   session.PaymentReference,
		ConfirmedAt:        time.Now(),
	}

	if err := f.repo.Create(ctx, record); err != nil {
		// A concurrent finalize may have won the unique session_id race;
		// re-read before reporting failure.
		if existing, lookupErr := f.repo.GetBySessionID(ctx, session.ID); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create booking record: %w", err)
	}

	f.logger.LogBookingFinalized(ctx, session.ID.String(), record.BookingRef, record.PaymentReference)

	if f.publisher != nil {
		if err := f.publisher.PublishBookingConfirmed(ctx, record); err != nil {
			// The record is already durable; delivery to dashboards is
			// retried out of band, not rolled back.
			f.logger.ErrorWithContext(ctx, "failed to publish booking confirmation", err, map[string]interface{}{
				"booking_ref": record.BookingRef,
			})
		}
	}

	return record, nil
}

// generateBookingReference generates a unique booking reference
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	// Generate 6 random uppercase letters
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TUR-%s-%s", timestamp, string(randomPart)), nil
}
