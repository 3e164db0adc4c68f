package booking

import (
	"time"

	"tourly/internal/payment"
	"tourly/internal/pricing"

	"github.com/google/uuid"
)

// TripConfiguration holds the mutable trip inputs of one booking session.
// It is owned exclusively by the session and frozen once payment starts.
type TripConfiguration struct {
	TravelDate         *time.Time                `json:"travel_date,omitempty"`
	DurationDays       int                       `json:"duration_days"`
	TravelerCount      int                       `json:"traveler_count"`
	AccommodationTier  pricing.AccommodationTier `json:"accommodation_tier"`
	TransportTier      pricing.TransportTier     `json:"transport_tier"`
	OptionalSelections []string                  `json:"optional_selections"`
}

// Selection projects the configuration onto the pricing engine's input
func (t *TripConfiguration) Selection() pricing.Selection {
	return pricing.Selection{
		TravelerCount: t.TravelerCount,
		DurationDays:  t.DurationDays,
		Accommodation: t.AccommodationTier,
		Transport:     t.TransportTier,
		Options:       t.OptionalSelections,
	}
}

// Validate checks the configuration at the session boundary. The pricing
// engine itself never validates; everything invalid is rejected here.
func (t *TripConfiguration) Validate(now time.Time, tariff *pricing.Tariff) []payment.FieldError {
	var errs []payment.FieldError

	if t.TravelDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if t.TravelDate.Before(today) {
			errs = append(errs, payment.FieldError{Field: "travel_date", Message: "travel date must not be in the past"})
		}
	}

	if t.DurationDays <= 0 {
		errs = append(errs, payment.FieldError{Field: "duration_days", Message: "duration must be a positive number of days"})
	}

	if t.TravelerCount <= 0 {
		errs = append(errs, payment.FieldError{Field: "traveler_count", Message: "traveler count must be positive"})
	}

	if !t.AccommodationTier.IsValid() {
		errs = append(errs, payment.FieldError{Field: "accommodation_tier", Message: "unknown accommodation tier"})
	}

	if !t.TransportTier.IsValid() {
		errs = append(errs, payment.FieldError{Field: "transport_tier", Message: "unknown transport tier"})
	}

	for _, code := range t.OptionalSelections {
		if !tariff.HasOption(code) {
			errs = append(errs, payment.FieldError{Field: "optional_selections", Message: "unknown selection: " + code})
		}
	}

	return errs
}

// Complete reports whether every field required to leave the configuration
// step is present
func (t *TripConfiguration) Complete() bool {
	return t.TravelDate != nil &&
		t.DurationDays > 0 &&
		t.TravelerCount > 0 &&
		t.AccommodationTier.IsValid() &&
		t.TransportTier.IsValid()
}

// Session is one booking attempt, from configuration through payment to a
// terminal state. It lives in the session store for the duration of the
// attempt and is never reused across attempts.
type Session struct {
	ID               uuid.UUID         `json:"id"`
	TourReference    string            `json:"tour_reference"`
	TourName         string            `json:"tour_name"`
	BasePackagePrice float64           `json:"base_package_price"`
	Currency         string            `json:"currency"`
	OrderReference   string            `json:"order_reference"`
	Trip             TripConfiguration `json:"trip"`
	Quote            pricing.Quote     `json:"quote"`
	Method           *payment.Method   `json:"method,omitempty"`
	Attempt          *payment.Attempt  `json:"attempt,omitempty"`
	PaymentReference string            `json:"payment_reference,omitempty"`
	Status           Status            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// BookingRecord is the immutable outcome of a paid session. Created exactly
// once by the finalizer; the quote total is captured at confirmation time
// and never recomputed.
type BookingRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	BookingRef         string    `gorm:"unique;not null" json:"booking_ref"`
	TourReference      string    `gorm:"not null" json:"tour_reference"`
	TravelDate         time.Time `gorm:"not null" json:"travel_date"`
	DurationDays       int       `gorm:"not null" json:"duration_days"`
	TravelerCount      int       `gorm:"not null" json:"traveler_count"`
	AccommodationTier  string    `gorm:"type:varchar(20)" json:"accommodation_tier"`
	TransportTier      string    `gorm:"type:varchar(20)" json:"transport_tier"`
	OptionalSelections []string  `gorm:"serializer:json" json:"optional_selections"`
	TotalPrice         float64   `gorm:"not null" json:"total_price"`
	Currency           string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	PaymentMethod      string    `gorm:"type:varchar(10);not null" json:"payment_method"`
	PaymentReference   string    `gorm:"unique;not null" json:"payment_reference"`
	ConfirmedAt        time.Time `gorm:"not null" json:"confirmed_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName sets the table name for BookingRecord
func (BookingRecord) TableName() string {
	return "booking_records"
}
