package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeQuote_LuxuryPrivate(t *testing.T) {
	tariff := DefaultTariff()

	quote := ComputeQuote(Selection{
		TravelerCount: 2,
		DurationDays:  7,
		Accommodation: AccommodationLuxury,
		Transport:     TransportPrivate,
	}, 2500, tariff)

	assert.Equal(t, 5000.0, quote.BasePortion)
	assert.Equal(t, 1400.0, quote.AccommodationPortion)
	assert.Equal(t, 700.0, quote.TransportPortion)
	assert.Equal(t, 0.0, quote.OptionsPortion)
	assert.Equal(t, 7100.0, quote.Total)
}

func TestComputeQuote_SharedTransportIsFree(t *testing.T) {
	tariff := DefaultTariff()

	quote := ComputeQuote(Selection{
		TravelerCount: 2,
		DurationDays:  7,
		Accommodation: AccommodationLuxury,
		Transport:     TransportShared,
	}, 2500, tariff)

	assert.Equal(t, 0.0, quote.TransportPortion)
	assert.Equal(t, 6400.0, quote.Total)
}

func TestComputeQuote_OptionsPricedPerTraveler(t *testing.T) {
	tariff := DefaultTariff()

	base := Selection{
		TravelerCount: 3,
		DurationDays:  5,
		Accommodation: AccommodationStandard,
		Transport:     TransportShared,
	}
	withOptions := base
	withOptions.Options = []string{"scuba-diving", "city-tour"}

	without := ComputeQuote(base, 1000, tariff)
	with := ComputeQuote(withOptions, 1000, tariff)

	// (75 + 25) per traveler, 3 travelers
	assert.Equal(t, 300.0, with.OptionsPortion)
	assert.Equal(t, without.Total+300, with.Total)
}

func TestComputeQuote_Deterministic(t *testing.T) {
	tariff := DefaultTariff()
	sel := Selection{
		TravelerCount: 4,
		DurationDays:  12,
		Accommodation: AccommodationBoutique,
		Transport:     TransportPrivate,
		Options:       []string{"cooking-class", "travel-insurance", "airport-pickup"},
	}

	first := ComputeQuote(sel, 1337.37, tariff)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeQuote(sel, 1337.37, tariff))
	}
}

func TestComputeQuote_TotalIsSumOfPortions(t *testing.T) {
	tariff := DefaultTariff()

	quote := ComputeQuote(Selection{
		TravelerCount: 2,
		DurationDays:  9,
		Accommodation: AccommodationPremium,
		Transport:     TransportPrivate,
		Options:       []string{"mountain-hike"},
	}, 1800, tariff)

	require.Positive(t, quote.Total)
	assert.InDelta(t, quote.BasePortion+quote.AccommodationPortion+quote.TransportPortion+quote.OptionsPortion,
		quote.Total, 0.009)
	assert.GreaterOrEqual(t, quote.Total, quote.BasePortion)
}

func TestRoundToCents_HalfUp(t *testing.T) {
	assert.Equal(t, 0.13, roundToCents(0.125))
	assert.Equal(t, 0.38, roundToCents(0.375))
	assert.Equal(t, 0.37, roundToCents(0.374))
	assert.Equal(t, 7100.0, roundToCents(7100))
}
