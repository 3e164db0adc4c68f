package notifications

import (
	"encoding/json"
	"time"

	"tourly/internal/booking"
)

// EventType labels the payloads published on the booking events topic
type EventType string

const (
	EventTypeBookingConfirmed      EventType = "booking.confirmed"
	EventTypePaymentReconciliation EventType = "payment.reconciliation_required"
)

// BookingConfirmedEvent is emitted once per finalized booking record
type BookingConfirmedEvent struct {
	Type          EventType `json:"type"`
	BookingRef    string    `json:"booking_ref"`
	SessionID     string    `json:"session_id"`
	TourReference string    `json:"tour_reference"`
	TravelDate    time.Time `json:"travel_date"`
	TravelerCount int       `json:"traveler_count"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"payment_method"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
	PublishedAt   time.Time `json:"published_at"`
}

// PaymentReconciliationEvent is emitted for payment signals that arrived too
// late to change their session. Downstream handles refunds and support.
type PaymentReconciliationEvent struct {
	Type              EventType `json:"type"`
	SessionID         string    `json:"session_id"`
	PayableRequestID  string    `json:"payable_request_id"`
	ExternalReference string    `json:"external_reference"`
	Reason            string    `json:"reason"`
	ReceivedAt        time.Time `json:"received_at"`
	PublishedAt       time.Time `json:"published_at"`
}

// NewBookingConfirmedEvent builds the confirmation payload from a record
func NewBookingConfirmedEvent(record *booking.BookingRecord) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		Type:          EventTypeBookingConfirmed,
		BookingRef:    record.BookingRef,
		SessionID:     record.SessionID.String(),
		TourReference: record.TourReference,
		TravelDate:    record.TravelDate,
		TravelerCount: record.TravelerCount,
		TotalPrice:    record.TotalPrice,
		Currency:      record.Currency,
		PaymentMethod: record.PaymentMethod,
		ConfirmedAt:   record.ConfirmedAt,
		PublishedAt:   time.Now(),
	}
}

// NewPaymentReconciliationEvent builds the reconciliation payload from a note
func NewPaymentReconciliationEvent(note booking.ReconciliationNote) *PaymentReconciliationEvent {
	return &PaymentReconciliationEvent{
		Type:              EventTypePaymentReconciliation,
		SessionID:         note.SessionID,
		PayableRequestID:  note.PayableRequestID,
		ExternalReference: note.ExternalReference,
		Reason:            note.Reason,
		ReceivedAt:        note.ReceivedAt,
		PublishedAt:       time.Now(),
	}
}

// ToJSON serializes an event payload for the wire
func ToJSON(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}
