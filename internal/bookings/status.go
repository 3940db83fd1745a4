package bookings

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusWaitingPayment Status = "WAITING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusCancelled      Status = "CANCELLED"
	StatusCompleted      Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusWaitingPayment, StatusPaid, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Blocks reports whether a booking in this status occupies its slot
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentStatus string

const (
	PaymentWaitingVerification PaymentStatus = "WAITING_VERIFICATION"
	PaymentApproved            PaymentStatus = "APPROVED"
	PaymentRejected            PaymentStatus = "REJECTED"
)

// DisplayStatus is the label/color pair the mobile app renders
type DisplayStatus struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func (s Status) Display() DisplayStatus {
	switch s {
	case StatusPaid:
		return DisplayStatus{Label: "Approved", Color: "success"}
	case StatusPending, StatusWaitingPayment:
		return DisplayStatus{Label: "Pending", Color: "warning"}
	case StatusCancelled:
		return DisplayStatus{Label: "Cancelled", Color: "danger"}
	case StatusCompleted:
		return DisplayStatus{Label: "Completed", Color: "info"}
	default:
		return DisplayStatus{Label: string(s), Color: "default"}
	}
}

// BookingNumber formats #YYMMDD plus the last four digits of the creation
// time in unix millis. Not unique; display only.
func BookingNumber(createdAt time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("#%s%04d", createdAt.In(loc).Format("060102"), createdAt.UnixMilli()%10000)
}

// DurationHours is the slot length in (possibly fractional) hours
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// checkProofAllowed rejects a payment proof for bookings that can no longer be paid
func checkProofAllowed(s Status) error {
	switch s {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusCompleted:
		return ErrBookingCompleted
	}
	return nil
}

// checkCancelAllowed rejects cancellation once a booking is settled
func checkCancelAllowed(s Status) error {
	switch s {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusPaid:
		return ErrCannotCancelPaid
	case StatusCompleted:
		return ErrCannotCancelCompleted
	}
	return nil
}

// checkVerifyAllowed rejects an admin decision on a booking that is already closed
func checkVerifyAllowed(s Status) error {
	switch s {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return ErrBookingCompleted
	}
	return nil
}
