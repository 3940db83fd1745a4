package bookings

import "fieldbook/internal/shared/apperror"

var (
	ErrBookingNotFound  = apperror.NotFound("Booking not found")
	ErrCustomerNotFound = apperror.NotFound("Customer not found")
	ErrNotOwner         = apperror.Forbidden("You do not have access to this booking")

	ErrSlotConflict  = apperror.Conflict("This slot is already booked. Please choose another time")
	ErrFieldInactive = apperror.BadRequest("Field is not active")
	ErrPastSlot      = apperror.BadRequest("Cannot book a time that has already passed")

	ErrAlreadyCancelled      = apperror.BadRequest("Booking is already cancelled")
	ErrCannotCancelPaid      = apperror.BadRequest("Cannot cancel a paid booking. Please contact the venue")
	ErrCannotCancelCompleted = apperror.BadRequest("Cannot cancel a completed booking")
	ErrAlreadyPaid           = apperror.BadRequest("Booking is already paid and verified")
	ErrBookingCompleted      = apperror.BadRequest("Booking is already completed")
	ErrProofRequired         = apperror.BadRequest("paymentProof file or proofUrl is required")
	ErrStatusChanged         = apperror.Conflict("Booking was modified by another request, please retry")

	ErrNoPayment       = apperror.NotFound("Booking has no payment yet")
	ErrAlreadyVerified = apperror.Conflict("Payment has already been verified")
)
