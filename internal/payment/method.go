package payment

import (
	"regexp"
	"strings"
	"time"
)

// Kind discriminates the payment method variant
type Kind string

const (
	KindCard   Kind = "CARD"
	KindWallet Kind = "WALLET"
)

// IsValid checks if the payment method kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindCard, KindWallet:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// CardDetails holds the card fields collected from the traveler
type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// BillingDetails holds the billing fields for the card path
type BillingDetails struct {
	Country    string `json:"country"` // ISO 3166-1 alpha-2
	PostalCode string `json:"postal_code"`
}

// WalletDetails holds the wallet payer identity
type WalletDetails struct {
	PayerIdentifier string `json:"payer_identifier"`
}

// Method is the tagged payment method variant. Exactly one of Card or
// Wallet is set, matching Kind.
type Method struct {
	Kind    Kind            `json:"kind"`
	Card    *CardDetails    `json:"card,omitempty"`
	Billing *BillingDetails `json:"billing,omitempty"`
	Wallet  *WalletDetails  `json:"wallet,omitempty"`
}

// NewCardMethod builds a card payment method
func NewCardMethod(card CardDetails, billing BillingDetails) *Method {
	return &Method{Kind: KindCard, Card: &card, Billing: &billing}
}

// NewWalletMethod builds a wallet payment method
func NewWalletMethod(payerIdentifier string) *Method {
	return &Method{Kind: KindWallet, Wallet: &WalletDetails{PayerIdentifier: payerIdentifier}}
}

var (
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	countryCode   = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Validate checks the method fields for completeness and format. It returns
// field-level errors; an empty slice means the method is submittable.
func (m *Method) Validate(now time.Time) []FieldError {
	switch m.Kind {
	case KindCard:
		return validateCard(m.Card, m.Billing, now)
	case KindWallet:
		return validateWallet(m.Wallet)
	default:
		return []FieldError{{Field: "kind", Message: "unknown payment method"}}
	}
}

func validateCard(card *CardDetails, billing *BillingDetails, now time.Time) []FieldError {
	var errs []FieldError

	if card == nil {
		return []FieldError{{Field: "card", Message: "card details are required"}}
	}

	number := strings.ReplaceAll(card.Number, " ", "")
	switch {
	case number == "":
		errs = append(errs, FieldError{Field: "number", Message: "card number is required"})
	case !digitsOnly.MatchString(number):
		errs = append(errs, FieldError{Field: "number", Message: "card number must contain only digits"})
	case len(number) < 13 || len(number) > 19:
		errs = append(errs, FieldError{Field: "number", Message: "card number must be 13 to 19 digits"})
	case !luhnValid(number):
		errs = append(errs, FieldError{Field: "number", Message: "card number failed checksum"})
	}

	if matches := expiryPattern.FindStringSubmatch(card.Expiry); matches == nil {
		errs = append(errs, FieldError{Field: "expiry", Message: "expiry must be in MM/YY format"})
	} else if expired(matches[1], matches[2], now) {
		errs = append(errs, FieldError{Field: "expiry", Message: "card has expired"})
	}

	if len(card.CVV) < 3 || len(card.CVV) > 4 || !digitsOnly.MatchString(card.CVV) {
		errs = append(errs, FieldError{Field: "cvv", Message: "cvv must be 3 or 4 digits"})
	}

	if strings.TrimSpace(card.HolderName) == "" {
		errs = append(errs, FieldError{Field: "holder_name", Message: "card holder name is required"})
	}

	if billing == nil {
		errs = append(errs, FieldError{Field: "billing", Message: "billing details are required"})
	} else {
		if !countryCode.MatchString(billing.Country) {
			errs = append(errs, FieldError{Field: "billing.country", Message: "country must be a two-letter code"})
		}
		if strings.TrimSpace(billing.PostalCode) == "" {
			errs = append(errs, FieldError{Field: "billing.postal_code", Message: "postal code is required"})
		}
	}

	return errs
}

func validateWallet(wallet *WalletDetails) []FieldError {
	if wallet == nil || strings.TrimSpace(wallet.PayerIdentifier) == "" {
		return []FieldError{{Field: "payer_identifier", Message: "payer identifier is required"}}
	}
	if len(wallet.PayerIdentifier) < 5 {
		return []FieldError{{Field: "payer_identifier", Message: "payer identifier is too short"}}
	}
	return nil
}

// expired reports whether MM/YY lies before the month containing now
func expired(month, year string, now time.Time) bool {
	expiry, err := time.Parse("01/06", month+"/"+year)
	if err != nil {
		return true
	}
	// Valid through the last instant of the expiry month
	endOfMonth := expiry.AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}

// luhnValid runs the standard Luhn checksum over a digit string
func luhnValid(number string) bool {
	var sum int
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
