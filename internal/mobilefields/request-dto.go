package mobilefields

import (
	"strings"
	"time"

	"fieldbook/internal/slots"
)

// SlotQuery describes the slot a client is browsing: an ISO pair, or a
// date with startHour/durationHours. Everything is optional.
type SlotQuery struct {
	StartTime     string `form:"startTime"`
	EndTime       string `form:"endTime"`
	Date          string `form:"date"`
	StartHour     *int   `form:"startHour" binding:"omitempty,min=0,max=23"`
	DurationHours *int   `form:"durationHours" binding:"omitempty,min=1,max=24"`
}

type ListQuery struct {
	SlotQuery
	Search        string `form:"search"`
	VenueID       string `form:"venueId" binding:"omitempty,uuid"`
	OnlyAvailable bool   `form:"onlyAvailable"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Input parses the raw query into resolver input
func (q SlotQuery) Input(loc *time.Location) (slots.Input, error) {
	in := slots.Input{
		Date:     strings.TrimSpace(q.Date),
		Hour:     q.StartHour,
		Duration: q.DurationHours,
	}
	if v := strings.TrimSpace(q.StartTime); v != "" {
		t, err := slots.ParseTimestamp(v, loc)
		if err != nil {
			return slots.Input{}, err
		}
		in.Start = &t
	}
	if v := strings.TrimSpace(q.EndTime); v != "" {
		t, err := slots.ParseTimestamp(v, loc)
		if err != nil {
			return slots.Input{}, err
		}
		in.End = &t
	}
	return in, nil
}
