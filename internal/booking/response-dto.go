package booking

import (
	"time"

	"tourly/internal/payment"
	"tourly/internal/pricing"
)

// QuoteResponse is the price breakdown returned alongside every session
type QuoteResponse struct {
	BasePortion          float64 `json:"base_portion"`
	AccommodationPortion float64 `json:"accommodation_portion"`
	TransportPortion     float64 `json:"transport_portion"`
	OptionsPortion       float64 `json:"options_portion"`
	Total                float64 `json:"total"`
}

// TripResponse mirrors the session's trip configuration
type TripResponse struct {
	TravelDate         *string  `json:"travel_date"`
	DurationDays       int      `json:"duration_days"`
	TravelerCount      int      `json:"traveler_count"`
	AccommodationTier  string   `json:"accommodation_tier"`
	TransportTier      string   `json:"transport_tier"`
	OptionalSelections []string `json:"optional_selections"`
}

// AttemptResponse describes a pending wallet attempt on the session
type AttemptResponse struct {
	Protocol         string     `json:"protocol"`
	PayableRequestID string     `json:"payable_request_id,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// SessionResponse is the client view of a booking session. Payment method
// details are never echoed back.
type SessionResponse struct {
	ID             string           `json:"id"`
	TourReference  string           `json:"tour_reference"`
	TourName       string           `json:"tour_name"`
	Currency       string           `json:"currency"`
	OrderReference string           `json:"order_reference"`
	Trip           TripResponse     `json:"trip"`
	Quote          QuoteResponse    `json:"quote"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Attempt        *AttemptResponse `json:"attempt,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CreateSessionResponse pairs the new session with its checkout token
type CreateSessionResponse struct {
	Session      SessionResponse `json:"session"`
	SessionToken string          `json:"session_token"`
}

// PayableResponse describes a wallet payable request awaiting its signal
type PayableResponse struct {
	PayableRequestID string    `json:"payable_request_id"`
	LaunchURL        string    `json:"launch_url"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// SubmitResponse is the outcome of a payment submission
type SubmitResponse struct {
	Session SessionResponse  `json:"session"`
	Record  *RecordResponse  `json:"record,omitempty"`
	Payable *PayableResponse `json:"payable,omitempty"`
}

// RecordResponse is the client view of a finalized booking record
type RecordResponse struct {
	BookingRef         string    `json:"booking_ref"`
	TourReference      string    `json:"tour_reference"`
	TravelDate         string    `json:"travel_date"`
	DurationDays       int       `json:"duration_days"`
	TravelerCount      int       `json:"traveler_count"`
	AccommodationTier  string    `json:"accommodation_tier"`
	TransportTier      string    `json:"transport_tier"`
	OptionalSelections []string  `json:"optional_selections"`
	TotalPrice         float64   `json:"total_price"`
	Currency           string    `json:"currency"`
	PaymentMethod      string    `json:"payment_method"`
	PaymentReference   string    `json:"payment_reference"`
	ConfirmedAt        time.Time `json:"confirmed_at"`
}

func toQuoteResponse(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		BasePortion:          q.BasePortion,
		AccommodationPortion: q.AccommodationPortion,
		TransportPortion:     q.TransportPortion,
		OptionsPortion:       q.OptionsPortion,
		Total:                q.Total,
	}
}

func toTripResponse(t TripConfiguration) TripResponse {
	resp := TripResponse{
		DurationDays:       t.DurationDays,
		TravelerCount:      t.TravelerCount,
		AccommodationTier:  t.AccommodationTier.String(),
		TransportTier:      t.TransportTier.String(),
		OptionalSelections: t.OptionalSelections,
	}
	if t.TravelDate != nil {
		formatted := t.TravelDate.Format(travelDateLayout)
		resp.TravelDate = &formatted
	}
	return resp
}

func toSessionResponse(s *Session) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID.String(),
		TourReference:  s.TourReference,
		TourName:       s.TourName,
		Currency:       s.Currency,
		OrderReference: s.OrderReference,
		Trip:           toTripResponse(s.Trip),
		Quote:          toQuoteResponse(s.Quote),
		Status:         s.Status.String(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Method != nil {
		resp.PaymentMethod = string(s.Method.Kind)
	}
	if s.Attempt != nil {
		resp.Attempt = &AttemptResponse{
			Protocol:         string(s.Attempt.Protocol),
			PayableRequestID: s.Attempt.PayableRequestID,
			ExpiresAt:        s.Attempt.ExpiresAt,
		}
	}
	return resp
}

func toPayableResponse(p *payment.PayableRequest) *PayableResponse {
	return &PayableResponse{
		PayableRequestID: p.PayableRequestID,
		LaunchURL:        p.LaunchURL,
		Amount:           p.Amount,
		Currency:         p.Currency,
		IssuedAt:         p.IssuedAt,
		ExpiresAt:        p.ExpiresAt,
	}
}

func toRecordResponse(r *BookingRecord) *RecordResponse {
	return &RecordResponse{
		BookingRef:         r.BookingRef,
		TourReference:      r.TourReference,
		TravelDate:         r.TravelDate.Format(travelDateLayout),
		DurationDays:       r.DurationDays,
		TravelerCount:      r.TravelerCount,
		AccommodationTier:  r.AccommodationTier,
		TransportTier:      r.TransportTier,
		OptionalSelections: r.OptionalSelections,
		TotalPrice:         r.TotalPrice,
		Currency:           r.Currency,
		PaymentMethod:      r.PaymentMethod,
		PaymentReference:   r.PaymentReference,
		ConfirmedAt:        r.ConfirmedAt,
	}
}
