package bookings

import (
	"testing"
	"time"

	"fieldbook/internal/slots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequestWindow(t *testing.T) {
	two := 2
	zero := 0

	tests := []struct {
		name      string
		req       CreateBookingRequest
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "clock with duration",
			req:       CreateBookingRequest{StartTime: "19:00", OrderDate: "2026-10-24", DurationHours: &two},
			wantStart: time.Date(2026, 10, 24, 19, 0, 0, 0, wib),
			wantEnd:   time.Date(2026, 10, 24, 21, 0, 0, 0, wib),
		},
		{
			name:      "dotted clock defaults to one hour",
			req:       CreateBookingRequest{StartTime: "07.30", OrderDate: "2026-10-24"},
			wantStart: time.Date(2026, 10, 24, 7, 30, 0, 0, wib),
			wantEnd:   time.Date(2026, 10, 24, 8, 30, 0, 0, wib),
		},
		{
			name:      "iso pair",
			req:       CreateBookingRequest{StartTime: "2026-10-24T10:00:00Z", EndTime: "2026-10-24T11:30:00Z"},
			wantStart: time.Date(2026, 10, 24, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 10, 24, 11, 30, 0, 0, time.UTC),
		},
		{
			name:      "iso start with duration",
			req:       CreateBookingRequest{StartTime: "2026-10-24T10:00", DurationHours: &two},
			wantStart: time.Date(2026, 10, 24, 10, 0, 0, 0, wib),
			wantEnd:   time.Date(2026, 10, 24, 12, 0, 0, 0, wib),
		},
		{name: "clock without date", req: CreateBookingRequest{StartTime: "19:00"}, wantErr: true},
		{name: "zero duration", req: CreateBookingRequest{StartTime: "19:00", OrderDate: "2026-10-24", DurationHours: &zero}, wantErr: true},
		{name: "bad clock", req: CreateBookingRequest{StartTime: "25:00", OrderDate: "2026-10-24"}, wantErr: true},
		{name: "range over a day", req: CreateBookingRequest{StartTime: "2026-10-24T10:00:00Z", EndTime: "2026-10-25T11:00:00Z"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := tt.req.Window(wib)
			if tt.wantErr {
				assert.ErrorIs(t, err, slots.ErrInvalidSlot)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(slot.Start), "start %s", slot.Start)
			assert.True(t, tt.wantEnd.Equal(slot.End), "end %s", slot.End)
		})
	}
}
