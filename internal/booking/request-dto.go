package booking

import (
	"fmt"
	"time"
)

const travelDateLayout = "2006-01-02"

// CreateSessionRequest starts a new booking session for one tour
type CreateSessionRequest struct {
	TourReference string `json:"tour_reference" binding:"required" validate:"required"`
}

// UpdateTripRequest is a partial trip mutation. Omitted fields keep their
// current value; an empty optional_selections array clears the selections.
type UpdateTripRequest struct {
	TravelDate         *string   `json:"travel_date"`
	DurationDays       *int      `json:"duration_days"`
	TravelerCount      *int      `json:"traveler_count"`
	AccommodationTier  *string   `json:"accommodation_tier"`
	TransportTier      *string   `json:"transport_tier"`
	OptionalSelections *[]string `json:"optional_selections"`
}

// ToUpdate converts the request into a service-level trip update
func (r *UpdateTripRequest) ToUpdate() (TripUpdate, error) {
	update := TripUpdate{
		DurationDays:       r.DurationDays,
		TravelerCount:      r.TravelerCount,
		AccommodationTier:  r.AccommodationTier,
		TransportTier:      r.TransportTier,
		OptionalSelections: r.OptionalSelections,
	}

	if r.TravelDate != nil {
		parsed, err := time.Parse(travelDateLayout, *r.TravelDate)
		if err != nil {
			return TripUpdate{}, fmt.Errorf("travel_date must use the YYYY-MM-DD format")
		}
		update.TravelDate = &parsed
	}

	return update, nil
}

// CardPaymentRequest selects card as the session's payment method. Format
// checks (checksum, expiry, country codes) happen in the payment package;
// only presence is enforced here.
type CardPaymentRequest struct {
	CardNumber        string `json:"card_number" binding:"required" validate:"required"`
	Expiry            string `json:"expiry" binding:"required" validate:"required"`
	CVV               string `json:"cvv" binding:"required" validate:"required"`
	HolderName        string `json:"holder_name" binding:"required" validate:"required"`
	BillingCountry    string `json:"billing_country" binding:"required" validate:"required"`
	BillingPostalCode string `json:"billing_postal_code" binding:"required" validate:"required"`
}

// WalletPaymentRequest selects wallet as the session's payment method
type WalletPaymentRequest struct {
	PayerIdentifier string `json:"payer_identifier" binding:"required" validate:"required"`
}

// WalletCompletionRequest carries the external wallet completion signal
type WalletCompletionRequest struct {
	ExternalReference string `json:"external_reference" binding:"required"`
}
