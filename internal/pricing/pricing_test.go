package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, wib)
}

var standardTiers = []Tier{
	{DayType: Weekday, StartHour: 8, EndHour: 17, Price: 50000},
	{DayType: Weekday, StartHour: 17, EndHour: 23, Price: 80000},
	{DayType: Weekend, StartHour: 0, EndHour: 24, Price: 100000},
	{DayType: Weekday, StartHour: 0, EndHour: 8, Price: 40000},
	{DayType: Weekday, StartHour: 23, EndHour: 24, Price: 60000},
}

func TestCalculate(t *testing.T) {
	// 2026-03-02 is a Monday, 2026-03-07 a Saturday
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"spans two weekday tiers", at(2026, 3, 2, 16, 0), at(2026, 3, 2, 18, 0), 130000},
		{"single hour", at(2026, 3, 2, 9, 0), at(2026, 3, 2, 10, 0), 50000},
		{"half hour", at(2026, 3, 2, 9, 0), at(2026, 3, 2, 9, 30), 25000},
		{"starts mid-hour", at(2026, 3, 2, 16, 30), at(2026, 3, 2, 17, 30), 65000},
		{"saturday night into sunday", at(2026, 3, 7, 23, 0), at(2026, 3, 8, 1, 0), 200000},
		{"sunday night into monday", at(2026, 3, 8, 23, 0), at(2026, 3, 9, 1, 0), 140000},
		{"friday night into saturday", at(2026, 3, 6, 23, 0), at(2026, 3, 7, 1, 0), 160000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(standardTiers, tt.start, tt.end, wib)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateRoundsOnce(t *testing.T) {
	tiers := []Tier{{DayType: Weekday, StartHour: 0, EndHour: 24, Price: 1}}

	// 20 minutes at 1/hour is 0.33, 40 minutes is 0.67
	got, err := Calculate(tiers, at(2026, 3, 2, 9, 0), at(2026, 3, 2, 9, 20), wib)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	got, err = Calculate(tiers, at(2026, 3, 2, 9, 0), at(2026, 3, 2, 9, 40), wib)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	tiers[0].Price = 75001
	got, err = Calculate(tiers, at(2026, 3, 2, 9, 0), at(2026, 3, 2, 9, 30), wib)
	require.NoError(t, err)
	assert.Equal(t, int64(37501), got, "37500.5 rounds half away from zero")
}

func TestCalculateUsesBusinessZone(t *testing.T) {
	// 09:00 UTC on a Friday is 16:00 WIB
	start := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	got, err := Calculate(standardTiers, start, start.Add(2*time.Hour), wib)
	require.NoError(t, err)
	assert.Equal(t, int64(130000), got)
}

func TestCalculateNoPrice(t *testing.T) {
	_, err := Calculate(nil, at(2026, 3, 2, 9, 0), at(2026, 3, 2, 10, 0), wib)
	assert.ErrorIs(t, err, ErrNoPriceConfigured)

	weekdayOnly := []Tier{{DayType: Weekday, StartHour: 8, EndHour: 22, Price: 50000}}
	_, err = Calculate(weekdayOnly, at(2026, 3, 7, 9, 0), at(2026, 3, 7, 10, 0), wib)
	require.ErrorIs(t, err, ErrNoPriceConfigured)
	assert.Equal(t, "no price configured for WEEKEND at 09:00", err.Error())

	// second hour falls outside the tier
	_, err = Calculate(weekdayOnly, at(2026, 3, 2, 21, 0), at(2026, 3, 2, 23, 0), wib)
	assert.ErrorIs(t, err, ErrNoPriceConfigured)
}

func TestFindTier(t *testing.T) {
	tier, ok := FindTier(standardTiers, at(2026, 3, 2, 17, 0), wib)
	require.True(t, ok)
	assert.Equal(t, int64(80000), tier.Price)

	_, ok = FindTier([]Tier{{DayType: Weekday, StartHour: 8, EndHour: 17, Price: 1}}, at(2026, 3, 2, 17, 0), wib)
	assert.False(t, ok, "endHour is exclusive")
}

func TestValidateTier(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		ok   bool
	}{
		{"valid", Tier{Weekday, 8, 17, 50000}, true},
		{"full day", Tier{Weekend, 0, 24, 0}, true},
		{"bad day type", Tier{"HOLIDAY", 8, 17, 1}, false},
		{"start 24", Tier{Weekday, 24, 24, 1}, false},
		{"end 0", Tier{Weekday, 0, 0, 1}, false},
		{"end 25", Tier{Weekday, 0, 25, 1}, false},
		{"end before start", Tier{Weekday, 17, 8, 1}, false},
		{"negative price", Tier{Weekday, 8, 17, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTier(tt.tier)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTier)
			}
		})
	}
}

func TestValidateTiersOverlap(t *testing.T) {
	assert.NoError(t, ValidateTiers(standardTiers))

	err := ValidateTiers([]Tier{
		{Weekday, 8, 17, 1},
		{Weekend, 8, 17, 1},
		{Weekday, 16, 20, 1},
	})
	require.ErrorIs(t, err, ErrTierOverlap)
	assert.Contains(t, err.Error(), "WEEKDAY 08-17 and 16-20")

	assert.NoError(t, EnsureNoOverlap(standardTiers[:1], Tier{Weekday, 17, 18, 1}), "adjacent tiers are fine")
	assert.ErrorIs(t, EnsureNoOverlap(standardTiers, Tier{Weekend, 10, 11, 1}), ErrTierOverlap)
}
