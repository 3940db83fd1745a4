package bookings

import (
	"strings"
	"time"

	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/slots"
)

// CreateBookingRequest binds from JSON or multipart; a multipart request
// may carry the proof as a "paymentProof" file.
type CreateBookingRequest struct {
	FieldID       string  `json:"fieldId" form:"fieldId" binding:"required,uuid"`
	StartTime     string  `json:"startTime" form:"startTime" binding:"required"`
	EndTime       string  `json:"endTime" form:"endTime"`
	OrderDate     string  `json:"orderDate" form:"orderDate"`
	DurationHours *int    `json:"durationHours" form:"durationHours" binding:"omitempty,min=1,max=24"`
	ProofURL      *string `json:"proofUrl" form:"proofUrl" binding:"omitempty,url"`
}

// Window resolves the requested interval. startTime is either an ISO
// timestamp (with endTime or durationHours) or HH:MM / HH.MM combined with
// orderDate and durationHours.
func (r CreateBookingRequest) Window(loc *time.Location) (slots.Slot, error) {
	hours := slots.DefaultDurationHours
	if r.DurationHours != nil {
		hours = *r.DurationHours
	}
	if hours < 1 {
		return slots.Slot{}, apperror.Wrapf(slots.ErrInvalidSlot, "durationHours must be at least 1")
	}

	var start time.Time
	var err error
	if slots.IsClock(r.StartTime) {
		start, err = slots.CombineClock(r.StartTime, r.OrderDate, loc)
	} else {
		start, err = slots.ParseTimestamp(r.StartTime, loc)
	}
	if err != nil {
		return slots.Slot{}, err
	}

	end := start.Add(time.Duration(hours) * time.Hour)
	if strings.TrimSpace(r.EndTime) != "" && !slots.IsClock(r.StartTime) {
		if end, err = slots.ParseTimestamp(r.EndTime, loc); err != nil {
			return slots.Slot{}, err
		}
	}

	return slots.Resolve(slots.Input{Start: &start, End: &end}, time.Time{}, loc)
}

type UploadPaymentProofRequest struct {
	ProofURL string `json:"proofUrl" form:"proofUrl" binding:"omitempty,url"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type MyBookingsFilters struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type AdminBookingFilters struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	FieldID   string `form:"fieldId"`
	VenueID   string `form:"venueId"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Today     bool   `form:"today"`

	// resolved from StartDate/EndDate/Today by the service
	From *time.Time `form:"-"`
	To   *time.Time `form:"-"`
}

type PendingFilters struct {
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	VenueID string `form:"venueId"`
}

type VerifyPaymentRequest struct {
	Approved *bool   `json:"approved" binding:"required"`
	Note     *string `json:"note" binding:"omitempty,max=500"`
}
