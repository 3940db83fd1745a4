package bookings

import (
	"context"
	"time"
)

// PaymentNotification tells a customer how their payment proof was judged
type PaymentNotification struct {
	BookingID     string    `json:"bookingId"`
	BookingNumber string    `json:"bookingNumber"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerName  string    `json:"customerName"`
	FieldName     string    `json:"fieldName"`
	VenueName     string    `json:"venueName"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TotalPrice    int64     `json:"totalPrice"`
	Approved      bool      `json:"approved"`
	Note          string    `json:"note,omitempty"`
}

// Notifier delivers payment verification outcomes. Failures never undo a verification.
type Notifier interface {
	NotifyPaymentVerified(ctx context.Context, n PaymentNotification) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyPaymentVerified(context.Context, PaymentNotification) error { return nil }

func newPaymentNotification(b *Booking, approved bool, note *string, loc *time.Location) PaymentNotification {
	n := PaymentNotification{
		BookingID:     b.ID.String(),
		BookingNumber: BookingNumber(b.CreatedAt, loc),
		FieldName:     b.fieldName(),
		VenueName:     b.venueName(),
		StartTime:     b.StartTime.In(loc),
		EndTime:       b.EndTime.In(loc),
		TotalPrice:    b.TotalPrice,
		Approved:      approved,
	}
	if b.Customer != nil {
		n.CustomerEmail = b.Customer.Email
		n.CustomerName = b.Customer.Name
	}
	if note != nil {
		n.Note = *note
	}
	return n
}
