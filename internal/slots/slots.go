// Package slots turns the different ways clients describe a booking window
// into one half-open [Start, End) interval.
package slots

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"fieldbook/internal/shared/apperror"
)

const (
	DefaultDurationHours = 1
	DefaultHourWithDate  = 8
	MaxRange             = 24 * time.Hour
	DateLayout           = "2006-01-02"
)

var ErrInvalidSlot = apperror.BadRequest("invalid slot")

// Slot is a half-open interval [Start, End)
type Slot struct {
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Input carries every optional way of describing a slot.
// Start/End win over Date/Hour/Duration when either is set.
type Input struct {
	Start    *time.Time
	End      *time.Time
	Date     string
	Hour     *int
	Duration *int
}

// Resolve returns the canonical slot for in, interpreting wall-clock values in loc
func Resolve(in Input, now time.Time, loc *time.Location) (Slot, error) {
	if loc == nil {
		loc = time.UTC
	}

	if in.Start != nil || in.End != nil {
		return resolveExplicit(in)
	}

	dur := DefaultDurationHours
	if in.Duration != nil {
		dur = *in.Duration
	}
	if dur < 1 {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "durationHours must be at least 1")
	}

	var base time.Time
	var hour int
	if in.Date != "" {
		day, err := ParseDate(in.Date, loc)
		if err != nil {
			return Slot{}, err
		}
		base = day
		hour = DefaultHourWithDate
	} else {
		base = NextFullHour(now.In(loc))
		hour = base.Hour()
	}

	if in.Hour != nil {
		hour = *in.Hour
	}
	if hour < 0 || hour > 23 {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "startHour must be between 0 and 23")
	}
	if hour+dur > 24 {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "slot crosses day boundary")
	}

	start := time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, loc)
	return Slot{Start: start, End: start.Add(time.Duration(dur) * time.Hour)}, nil
}

func resolveExplicit(in Input) (Slot, error) {
	if in.Start == nil || in.End == nil {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "startTime and endTime must be provided together")
	}
	start, end := *in.Start, *in.End
	if !end.After(start) {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "endTime must be after startTime")
	}
	if end.Sub(start) > MaxRange {
		return Slot{}, apperror.Wrapf(ErrInvalidSlot, "time range must not exceed 24 hours")
	}
	return Slot{Start: start, End: end}, nil
}

// NextFullHour rounds t up to the next wall-clock hour; t already on the hour is returned as is
func NextFullHour(t time.Time) time.Time {
	floor := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	if floor.Equal(t) {
		return floor
	}
	return floor.Add(time.Hour)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DayBounds returns [00:00, next 00:00) of t's local day
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns the first instant of t's local month and of the next one
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// ParseDate parses YYYY-MM-DD as local midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, apperror.Wrapf(ErrInvalidSlot, "date must use the YYYY-MM-DD format")
	}
	return d, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 and offset-less ISO forms, the latter read as wall time in loc
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Wrapf(ErrInvalidSlot, "invalid timestamp %q", value)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)

// IsClock reports whether value looks like HH:MM or HH.MM
func IsClock(value string) bool {
	return clockPattern.MatchString(strings.TrimSpace(value))
}

// CombineClock joins an HH:MM (or HH.MM) time with a YYYY-MM-DD date in loc
func CombineClock(clock, date string, loc *time.Location) (time.Time, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return time.Time{}, apperror.Wrapf(ErrInvalidSlot, "startTime must use HH:MM")
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return time.Time{}, apperror.Wrapf(ErrInvalidSlot, "startTime %s is not a valid time of day", clock)
	}
	if strings.TrimSpace(date) == "" {
		return time.Time{}, apperror.Wrapf(ErrInvalidSlot, "orderDate is required when startTime is a time of day")
	}

	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc), nil
}
