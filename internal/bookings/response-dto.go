package bookings

import (
	"time"

	"github.com/google/uuid"
)

// BookingDetail is a booking plus the fields derived for display
type BookingDetail struct {
	*Booking
	BookingNumber string        `json:"bookingNumber"`
	DisplayStatus DisplayStatus `json:"displayStatus"`
	DurationHours float64       `json:"durationHours"`
	FieldName     string        `json:"fieldName"`
	PrimaryImage  *string       `json:"primaryImage"`
}

// MyBookingItem is one row of the customer's booking history
type MyBookingItem struct {
	ID            uuid.UUID     `json:"id"`
	BookingNumber string        `json:"bookingNumber"`
	FieldName     string        `json:"fieldName"`
	Status        DisplayStatus `json:"status"`
	Date          time.Time     `json:"date"`
	StartTime     time.Time     `json:"startTime"`
	DurationHours float64       `json:"durationHours"`
}

type PaymentProofResult struct {
	Booking *Booking `json:"booking"`
	Payment *Payment `json:"payment"`
}

type VerificationResult struct {
	Booking *Booking `json:"booking"`
	Payment *Payment `json:"payment"`
}

func newBookingDetail(b *Booking, loc *time.Location) *BookingDetail {
	detail := &BookingDetail{
		Booking:       b,
		BookingNumber: BookingNumber(b.CreatedAt, loc),
		DisplayStatus: b.Status.Display(),
		DurationHours: DurationHours(b.StartTime, b.EndTime),
		FieldName:     b.fieldName(),
	}
	if b.Field != nil {
		detail.PrimaryImage = b.Field.PrimaryImage()
	}
	return detail
}

func newMyBookingItem(b *Booking, loc *time.Location) MyBookingItem {
	return MyBookingItem{
		ID:            b.ID,
		BookingNumber: BookingNumber(b.CreatedAt, loc),
		FieldName:     b.fieldName(),
		Status:        b.Status.Display(),
		Date:          b.StartTime,
		StartTime:     b.StartTime,
		DurationHours: DurationHours(b.StartTime, b.EndTime),
	}
}
