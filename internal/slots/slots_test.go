package slots

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func ptr[T any](v T) *T { return &v }

func TestResolveExplicit(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, jakarta)
	start := time.Date(2026, 3, 3, 16, 0, 0, 0, jakarta)

	tests := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{"only start", Input{Start: &start}, "startTime and endTime must be provided together"},
		{"only end", Input{End: ptr(start.Add(time.Hour))}, "startTime and endTime must be provided together"},
		{"end equals start", Input{Start: &start, End: &start}, "endTime must be after startTime"},
		{"end before start", Input{Start: &start, End: ptr(start.Add(-time.Hour))}, "endTime must be after startTime"},
		{"longer than a day", Input{Start: &start, End: ptr(start.Add(25 * time.Hour))}, "time range must not exceed 24 hours"},
		{"exactly a day", Input{Start: &start, End: ptr(start.Add(24 * time.Hour))}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := Resolve(tt.in, now, jakarta)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 24*time.Hour, slot.Duration())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSlot))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestResolveExplicitWinsOverHour(t *testing.T) {
	start := time.Date(2026, 3, 3, 16, 0, 0, 0, jakarta)
	end := start.Add(2 * time.Hour)

	slot, err := Resolve(Input{Start: &start, End: &end, Hour: ptr(9), Date: "2026-01-01"}, time.Now(), jakarta)
	require.NoError(t, err)
	assert.Equal(t, start, slot.Start)
	assert.Equal(t, end, slot.End)
}

func TestResolveDefaults(t *testing.T) {
	t.Run("now rounds up to the next hour", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 14, 20, 0, 0, jakarta)
		slot, err := Resolve(Input{}, now, jakarta)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 15, 0, 0, 0, jakarta), slot.Start)
		assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, jakarta), slot.End)
	})

	t.Run("exactly on the hour is kept", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 14, 0, 0, 0, jakarta)
		slot, err := Resolve(Input{}, now, jakarta)
		require.NoError(t, err)
		assert.Equal(t, now, slot.Start)
	})

	t.Run("late evening rolls to tomorrow", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 23, 30, 0, 0, jakarta)
		slot, err := Resolve(Input{}, now, jakarta)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, jakarta), slot.Start)
	})

	t.Run("now is read in the business zone", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 7, 10, 0, 0, time.UTC) // 14:10 WIB
		slot, err := Resolve(Input{}, now, jakarta)
		require.NoError(t, err)
		assert.Equal(t, 15, slot.Start.Hour())
	})

	t.Run("date without hour starts at eight", func(t *testing.T) {
		slot, err := Resolve(Input{Date: "2026-03-07", Duration: ptr(2)}, time.Now(), jakarta)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 7, 8, 0, 0, 0, jakarta), slot.Start)
		assert.Equal(t, time.Date(2026, 3, 7, 10, 0, 0, 0, jakarta), slot.End)
	})

	t.Run("hour without date uses today's base", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 9, 15, 0, 0, jakarta)
		slot, err := Resolve(Input{Hour: ptr(19)}, now, jakarta)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 19, 0, 0, 0, jakarta), slot.Start)
	})
}

func TestResolveRejects(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, jakarta)

	tests := []struct {
		name string
		in   Input
		msg  string
	}{
		{"crosses midnight", Input{Hour: ptr(23), Duration: ptr(2)}, "slot crosses day boundary"},
		{"ends exactly at midnight is fine", Input{Hour: ptr(22), Duration: ptr(2)}, ""},
		{"zero duration", Input{Duration: ptr(0)}, "durationHours must be at least 1"},
		{"hour out of range", Input{Hour: ptr(24)}, "startHour must be between 0 and 23"},
		{"bad date", Input{Date: "07-03-2026"}, "date must use the YYYY-MM-DD format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.in, now, jakarta)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSlot)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 2, h, 0, 0, 0, jakarta) }

	assert.True(t, Overlaps(at(16), at(18), at(17), at(19)))
	assert.True(t, Overlaps(at(16), at(18), at(15), at(20)))
	assert.False(t, Overlaps(at(16), at(18), at(18), at(19)), "adjacent after")
	assert.False(t, Overlaps(at(16), at(18), at(14), at(16)), "adjacent before")
}

func TestCombineClock(t *testing.T) {
	got, err := CombineClock("19.30", "2026-03-07", jakarta)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 7, 19, 30, 0, 0, jakarta), got)

	got, err = CombineClock(" 7:00 ", "2026-03-07", jakarta)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Hour())

	_, err = CombineClock("24:00", "2026-03-07", jakarta)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = CombineClock("10:61", "2026-03-07", jakarta)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = CombineClock("10:00", "", jakarta)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	assert.True(t, IsClock("09:00"))
	assert.False(t, IsClock("2026-03-07T09:00:00+07:00"))
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2026-01-09T19:00:00+07:00", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)))

	got, err = ParseTimestamp("2026-01-09T19:00", jakarta)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 9, 19, 0, 0, 0, jakarta), got)

	_, err = ParseTimestamp("tomorrow", jakarta)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestDayAndMonthBounds(t *testing.T) {
	now := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC) // 08:00 WIB
	start, end := DayBounds(now, jakarta)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, jakarta), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, jakarta), end)

	mStart, mEnd := MonthBounds(now, jakarta)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, jakarta), mStart)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, jakarta), mEnd)
}
