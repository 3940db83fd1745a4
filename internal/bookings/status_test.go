package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingNumber(t *testing.T) {
	created := time.UnixMilli(1_792_400_001_234).UTC()
	assert.Equal(t, "#"+created.In(wib).Format("060102")+"1234", BookingNumber(created, wib))
}

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, DisplayStatus{Label: "Approved", Color: "success"}, StatusPaid.Display())
	assert.Equal(t, StatusPending.Display(), StatusWaitingPayment.Display())
	assert.Equal(t, "danger", StatusCancelled.Display().Color)
}

func TestOnlyCancelledFreesTheSlot(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusWaitingPayment, StatusPaid, StatusCompleted} {
		assert.True(t, s.Blocks(), s)
	}
	assert.False(t, StatusCancelled.Blocks())
}

func TestTransitionGuards(t *testing.T) {
	assert.NoError(t, checkProofAllowed(StatusPending))
	assert.NoError(t, checkProofAllowed(StatusWaitingPayment))
	assert.ErrorIs(t, checkProofAllowed(StatusCompleted), ErrBookingCompleted)

	assert.NoError(t, checkCancelAllowed(StatusWaitingPayment))
	assert.ErrorIs(t, checkCancelAllowed(StatusPaid), ErrCannotCancelPaid)
}
