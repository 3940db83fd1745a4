package constants

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeysMatchInvalidationPatterns(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		key     string
		pattern string
		ttl     time.Duration
	}{
		{BuildVenueDetailKey("v1"), PATTERN_INVALIDATE_VENUES_ALL, TTL_VENUE_DETAIL},
		{BuildFieldDetailKey("f1"), PATTERN_INVALIDATE_FIELDS_ALL, TTL_FIELD_DETAIL},
		{BuildBookingStatsKey("", day), PATTERN_INVALIDATE_ANALYTICS, TTL_BOOKING_STATS},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(tt.key, strings.TrimSuffix(tt.pattern, "*")))
			assert.Positive(t, tt.ttl)
		})
	}

	assert.Equal(t, "fieldbook:analytics:bookings:stats:venue:all:day:2026-10-19", BuildBookingStatsKey("", day))
	assert.NotEqual(t, BuildBookingStatsKey("v1", day), BuildBookingStatsKey("v1", day.AddDate(0, 0, 1)))
}
