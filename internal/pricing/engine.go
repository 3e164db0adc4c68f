package pricing

import "math"

// Selection is the pricing-relevant projection of a trip configuration.
// Validation (tier enums, option codes, positive counts) happens at the
// booking session boundary; the engine assumes its inputs were accepted
// there.
type Selection struct {
	TravelerCount int
	DurationDays  int
	Accommodation AccommodationTier
	Transport     TransportTier
	Options       []string
}

// Quote is the derived price breakdown for one trip configuration. It is a
// projection, recomputed on every configuration change, never stored apart
// from the session that produced it.
type Quote struct {
	BasePortion          float64 `json:"base_portion"`
	AccommodationPortion float64 `json:"accommodation_portion"`
	TransportPortion     float64 `json:"transport_portion"`
	OptionsPortion       float64 `json:"options_portion"`
	Total                float64 `json:"total"`
}

// ComputeQuote prices a trip selection against a base package price and a
// tariff table. Pure and side-effect free; safe to call on every input
// change.
func ComputeQuote(sel Selection, basePackagePrice float64, tariff *Tariff) Quote {
	basePortion := basePackagePrice * float64(sel.TravelerCount)

	accommodationPortion := tariff.AccommodationRate(sel.Accommodation) * float64(sel.DurationDays)

	var transportPortion float64
	if sel.Transport == TransportPrivate {
		transportPortion = tariff.TransportPrivatePerDay * float64(sel.DurationDays)
	}

	var optionsPortion float64
	for _, code := range sel.Options {
		optionsPortion += tariff.OptionRate(code) * float64(sel.TravelerCount)
	}

	return Quote{
		BasePortion:          roundToCents(basePortion),
		AccommodationPortion: roundToCents(accommodationPortion),
		TransportPortion:     roundToCents(transportPortion),
		OptionsPortion:       roundToCents(optionsPortion),
		Total:                roundToCents(basePortion + accommodationPortion + transportPortion + optionsPortion),
	}
}

// roundToCents rounds to the currency minor unit using round-half-up
func roundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
