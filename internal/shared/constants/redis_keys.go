package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL conventions for the Tourly backend.
// Pattern: tourly:{module}:{identifier}

// Cache TTL durations
const (
	// Catalog data changes rarely
	TTLCatalogList = 1 * time.Hour
	TTLCatalogTour = 2 * time.Hour

	// A booking session lives for exactly one booking attempt
	TTLBookingSession = 2 * time.Hour

	// A payable request index outlives the 15 minute validity window so
	// that late completion signals can still be attributed to a session
	// for reconciliation.
	TTLPayableIndex = 30 * time.Minute
)

// Key builders

// SessionKey returns the Redis key for a live booking session
func SessionKey(sessionID string) string {
	return fmt.Sprintf("tourly:session:%s", sessionID)
}

// PayableKey returns the Redis key mapping a wallet payable request
// to its owning booking session
func PayableKey(payableRequestID string) string {
	return fmt.Sprintf("tourly:payable:%s", payableRequestID)
}

// TourCacheKey returns the cache key for a single tour
func TourCacheKey(reference string) string {
	return fmt.Sprintf("tourly:catalog:tour:%s", reference)
}

// TourListCacheKey returns the cache key for the active tour listing
func TourListCacheKey() string {
	return "tourly:catalog:tours"
}

// RateLimitKey returns the rate limiter key for a client and route class
func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("tourly:ratelimit:%s:%s", clientIP, limitType)
}
