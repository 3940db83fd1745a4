package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Pattern: fieldbook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_MEDIUM     = 12 * time.Hour   // roles, venue details
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // field details
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // venue/field listings
	TTL_DYNAMIC_QUICK     = 1 * time.Minute  // dashboard stats
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "fieldbook"
)

// ================== VENUES MODULE ==================

const (
	CACHE_KEY_VENUE_DETAIL = CACHE_PREFIX + ":venues:detail:uuid:" // + venue-id
)

const (
	TTL_VENUE_DETAIL = TTL_STATIC_MEDIUM
)

// ================== FIELDS MODULE ==================

const (
	CACHE_KEY_FIELD_DETAIL = CACHE_PREFIX + ":fields:detail:uuid:" // + field-id
)

const (
	TTL_FIELD_DETAIL = TTL_SEMI_STATIC_SHORT
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_BOOKING_STATS = CACHE_PREFIX + ":analytics:bookings:stats" // + :venue:X
)

const (
	TTL_BOOKING_STATS = TTL_DYNAMIC_QUICK
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_VENUES_ALL = CACHE_PREFIX + ":venues:*"
	PATTERN_INVALIDATE_FIELDS_ALL = CACHE_PREFIX + ":fields:*"
	PATTERN_INVALIDATE_ANALYTICS  = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildFieldDetailKey(fieldID string) string {
	return CACHE_KEY_FIELD_DETAIL + fieldID
}

// BuildBookingStatsKey scopes dashboard stats to a venue and the local day,
// so the cache rolls over at midnight.
func BuildBookingStatsKey(venueID string, day time.Time) string {
	if venueID == "" {
		venueID = "all"
	}
	return fmt.Sprintf("%s:venue:%s:day:%s", CACHE_KEY_BOOKING_STATS, venueID, day.Format("2006-01-02"))
}
