// Package pricing computes booking totals from a field's hourly price tiers.
package pricing

import (
	"fmt"
	"sort"
	"time"

	"fieldbook/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

type DayType string

const (
	Weekday DayType = "WEEKDAY"
	Weekend DayType = "WEEKEND"
)

func (d DayType) IsValid() bool {
	return d == Weekday || d == Weekend
}

var (
	ErrNoPriceConfigured = apperror.BadRequest("no price configured for this field")
	ErrInvalidTier       = apperror.BadRequest("invalid price tier")
	ErrTierOverlap       = apperror.BadRequest("price tiers overlap")
)

// Tier prices every hour h of dayType with StartHour <= h < EndHour
type Tier struct {
	DayType   DayType
	StartHour int
	EndHour   int
	Price     int64
}

func (t Tier) Contains(dayType DayType, hour int) bool {
	return t.DayType == dayType && t.StartHour <= hour && hour < t.EndHour
}

// DayTypeOf classifies t by its weekday in loc
func DayTypeOf(t time.Time, loc *time.Location) DayType {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// FindTier returns the tier covering the wall-clock hour of t
func FindTier(tiers []Tier, t time.Time, loc *time.Location) (Tier, bool) {
	dayType := DayTypeOf(t, loc)
	hour := t.In(loc).Hour()
	for _, tier := range tiers {
		if tier.Contains(dayType, hour) {
			return tier, true
		}
	}
	return Tier{}, false
}

// Calculate walks [start, end) one wall-clock hour at a time and sums
// price x fraction-of-hour for each piece, rounding the total once.
func Calculate(tiers []Tier, start, end time.Time, loc *time.Location) (int64, error) {
	if len(tiers) == 0 {
		return 0, ErrNoPriceConfigured
	}
	if !end.After(start) {
		return 0, apperror.Wrapf(ErrInvalidTier, "end must be after start")
	}
	if loc == nil {
		loc = time.UTC
	}

	hourNanos := decimal.NewFromInt(int64(time.Hour))
	total := decimal.Zero

	for cur := start.In(loc); cur.Before(end); {
		next := time.Date(cur.Year(), cur.Month(), cur.Day(), cur.Hour()+1, 0, 0, 0, loc)
		if next.After(end) {
			next = end
		}

		tier, ok := FindTier(tiers, cur, loc)
		if !ok {
			return 0, apperror.Wrapf(ErrNoPriceConfigured,
				"no price configured for %s at %02d:00", DayTypeOf(cur, loc), cur.Hour())
		}

		fraction := decimal.NewFromInt(int64(next.Sub(cur))).Div(hourNanos)
		total = total.Add(decimal.NewFromInt(tier.Price).Mul(fraction))

		cur = next
	}

	return total.Round(0).IntPart(), nil
}

// ValidateTier checks a single tier's bounds
func ValidateTier(t Tier) error {
	switch {
	case !t.DayType.IsValid():
		return apperror.Wrapf(ErrInvalidTier, "dayType must be WEEKDAY or WEEKEND")
	case t.StartHour < 0 || t.StartHour > 23:
		return apperror.Wrapf(ErrInvalidTier, "startHour must be between 0 and 23")
	case t.EndHour < 1 || t.EndHour > 24:
		return apperror.Wrapf(ErrInvalidTier, "endHour must be between 1 and 24")
	case t.EndHour <= t.StartHour:
		return apperror.Wrapf(ErrInvalidTier, "endHour must be greater than startHour")
	case t.Price < 0:
		return apperror.Wrapf(ErrInvalidTier, "price must not be negative")
	}
	return nil
}

// TiersOverlap reports whether two tiers of the same day type share an hour
func TiersOverlap(a, b Tier) bool {
	return a.DayType == b.DayType && a.StartHour < b.EndHour && b.StartHour < a.EndHour
}

// ValidateTiers validates each tier and rejects overlaps within the set
func ValidateTiers(tiers []Tier) error {
	for _, t := range tiers {
		if err := ValidateTier(t); err != nil {
			return err
		}
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DayType != sorted[j].DayType {
			return sorted[i].DayType < sorted[j].DayType
		}
		return sorted[i].StartHour < sorted[j].StartHour
	})

	for i := 1; i < len(sorted); i++ {
		if TiersOverlap(sorted[i-1], sorted[i]) {
			return apperror.Wrapf(ErrTierOverlap, "price tiers overlap: %s", describeOverlap(sorted[i-1], sorted[i]))
		}
	}
	return nil
}

// EnsureNoOverlap checks candidate against tiers already stored for the field
func EnsureNoOverlap(existing []Tier, candidate Tier) error {
	for _, t := range existing {
		if TiersOverlap(t, candidate) {
			return apperror.Wrapf(ErrTierOverlap, "price tiers overlap: %s", describeOverlap(t, candidate))
		}
	}
	return nil
}

func describeOverlap(a, b Tier) string {
	return fmt.Sprintf("%s %02d-%02d and %02d-%02d", a.DayType, a.StartHour, a.EndHour, b.StartHour, b.EndHour)
}
