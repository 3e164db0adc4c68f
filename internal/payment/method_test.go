package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func validCard() CardDetails {
	return CardDetails{
		Number:     "4242 4242 4242 4242",
		Expiry:     "12/28",
		CVV:        "123",
		HolderName: "Ada Lovelace",
	}
}

func validBilling() BillingDetails {
	return BillingDetails{Country: "GB", PostalCode: "SW1A 1AA"}
}

func TestValidateCard_Valid(t *testing.T) {
	method := NewCardMethod(validCard(), validBilling())
	assert.Empty(t, method.Validate(testNow))
}

func TestValidateCard_BadNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
	}{
		{"empty", ""},
		{"letters", "4242abcd42424242"},
		{"too short", "424242424242"},
		{"failed checksum", "4242424242424241"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			card.Number = tt.number
			errs := NewCardMethod(card, validBilling()).Validate(testNow)

			require.Len(t, errs, 1)
			assert.Equal(t, "number", errs[0].Field)
		})
	}
}

func TestValidateCard_Expiry(t *testing.T) {
	card := validCard()
	card.Expiry = "13/28"
	errs := NewCardMethod(card, validBilling()).Validate(testNow)
	require.Len(t, errs, 1)
	assert.Equal(t, "expiry", errs[0].Field)

	card.Expiry = "01/20"
	errs = NewCardMethod(card, validBilling()).Validate(testNow)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "expired")

	// Valid through the end of the expiry month
	card.Expiry = "08/26"
	assert.Empty(t, NewCardMethod(card, validBilling()).Validate(testNow))
}

func TestValidateCard_CVVAndHolder(t *testing.T) {
	card := validCard()
	card.CVV = "12"
	card.HolderName = "   "
	errs := NewCardMethod(card, validBilling()).Validate(testNow)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"cvv", "holder_name"}, fields)
}

func TestValidateCard_Billing(t *testing.T) {
	errs := NewCardMethod(validCard(), BillingDetails{Country: "gbr", PostalCode: ""}).Validate(testNow)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"billing.country", "billing.postal_code"}, fields)
}

func TestValidateWallet(t *testing.T) {
	assert.Empty(t, NewWalletMethod("traveler@wallet.example").Validate(testNow))

	errs := NewWalletMethod("").Validate(testNow)
	require.Len(t, errs, 1)
	assert.Equal(t, "payer_identifier", errs[0].Field)

	errs = NewWalletMethod("abc").Validate(testNow)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "too short")
}

func TestValidate_UnknownKind(t *testing.T) {
	method := &Method{Kind: Kind("CRYPTO")}
	errs := method.Validate(testNow)
	require.Len(t, errs, 1)
	assert.Equal(t, "kind", errs[0].Field)
}
