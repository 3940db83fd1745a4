package bookings

import (
	"context"
	"testing"
	"time"

	"fieldbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteFinishedMovesOnlyEndedPaidBookings(t *testing.T) {
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, wib)
	repo := newMemRepo(func() time.Time { return now })

	add := func(status Status, end time.Time) uuid.UUID {
		id := uuid.New()
		repo.bookings[id] = &Booking{ID: id, Status: status, StartTime: end.Add(-time.Hour), EndTime: end}
		return id
	}
	ended := add(StatusPaid, now.Add(-time.Hour))
	endsNow := add(StatusPaid, now)
	future := add(StatusPaid, now.Add(time.Hour))
	waiting := add(StatusWaitingPayment, now.Add(-time.Hour))
	cancelled := add(StatusCancelled, now.Add(-time.Hour))

	jp := NewJobProcessor(repo, nil, &JobConfig{CompletionInterval: time.Hour, BatchSize: 1}, logger.NewNop())
	jp.now = func() time.Time { return now }

	n, err := jp.CompleteFinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "batches until a short one")

	assert.Equal(t, StatusCompleted, repo.bookings[ended].Status)
	assert.Equal(t, StatusCompleted, repo.bookings[endsNow].Status)
	assert.Equal(t, StatusPaid, repo.bookings[future].Status)
	assert.Equal(t, StatusWaitingPayment, repo.bookings[waiting].Status)
	assert.Equal(t, StatusCancelled, repo.bookings[cancelled].Status)

	n, err = jp.CompleteFinished(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobProcessorStartStop(t *testing.T) {
	repo := newMemRepo(time.Now)
	jp := NewJobProcessor(repo, nil, &JobConfig{CompletionInterval: time.Hour, BatchSize: 10}, logger.NewNop())

	jp.Start(context.Background())
	jp.Stop()
}
