package pricing

import (
	"fmt"

	"tourly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccommodationTier is the accommodation level chosen for a trip
type AccommodationTier string

const (
	AccommodationStandard AccommodationTier = "standard"
	AccommodationPremium  AccommodationTier = "premium"
	AccommodationBoutique AccommodationTier = "boutique"
	AccommodationLuxury   AccommodationTier = "luxury"
)

// IsValid checks if the accommodation tier is valid
func (t AccommodationTier) IsValid() bool {
	switch t {
	case AccommodationStandard, AccommodationPremium, AccommodationBoutique, AccommodationLuxury:
		return true
	}
	return false
}

func (t AccommodationTier) String() string {
	return string(t)
}

// TransportTier is the transport level chosen for a trip
type TransportTier string

const (
	TransportShared  TransportTier = "shared"
	TransportPrivate TransportTier = "private"
)

// IsValid checks if the transport tier is valid
func (t TransportTier) IsValid() bool {
	switch t {
	case TransportShared, TransportPrivate:
		return true
	}
	return false
}

func (t TransportTier) String() string {
	return string(t)
}

// Tariff maps accommodation/transport tiers and optional selections to unit
// prices. It is read-only process-wide configuration; the engine never
// mutates it.
type Tariff struct {
	// Per-night accommodation rates by tier
	Accommodation map[AccommodationTier]float64

	// Per-day surcharge for private transport; shared transport is free
	TransportPrivatePerDay float64

	// Per-traveler unit prices for optional activities and add-ons
	Options map[string]float64
}

// DefaultTariff returns the built-in tariff table
func DefaultTariff() *Tariff {
	return &Tariff{
		Accommodation: map[AccommodationTier]float64{
			AccommodationStandard: 50,
			AccommodationPremium:  120,
			AccommodationBoutique: 160,
			AccommodationLuxury:   200,
		},
		TransportPrivatePerDay: 100,
		Options: map[string]float64{
			"scuba-diving":     75,
			"mountain-hike":    40,
			"city-tour":        25,
			"cooking-class":    55,
			"travel-insurance": 30,
			"airport-pickup":   20,
			"photo-package":    45,
		},
	}
}

// AccommodationRate returns the per-night rate for a tier
func (t *Tariff) AccommodationRate(tier AccommodationTier) float64 {
	rate, ok := t.Accommodation[tier]
	if !ok {
		missingEntry("accommodation", string(tier))
	}
	return rate
}

// OptionRate returns the per-traveler unit price for an optional selection
func (t *Tariff) OptionRate(code string) float64 {
	rate, ok := t.Options[code]
	if !ok {
		missingEntry("option", code)
	}
	return rate
}

// HasOption reports whether a selection code is priced by this tariff
func (t *Tariff) HasOption(code string) bool {
	_, ok := t.Options[code]
	return ok
}

// missingEntry handles a tariff lookup failure. A missing entry is a
// configuration bug, not a runtime error: the engine degrades to 0 in
// release mode and panics in debug mode so it surfaces during development.
func missingEntry(kind, key string) {
	logger.GetDefault().Error("missing tariff entry",
		"kind", kind,
		"key", key,
	)
	if gin.Mode() != gin.ReleaseMode {
		panic(fmt.Sprintf("missing tariff entry: %s %q", kind, key))
	}
}
