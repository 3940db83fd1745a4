package analytics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type fakeRepo struct {
	calls     atomic.Int32
	fail      error
	dayFrom   time.Time
	monthFrom time.Time
}

func (f *fakeRepo) CountStartingBetween(_ context.Context, _ string, from, _ time.Time) (int64, error) {
	f.calls.Add(1)
	f.dayFrom = from
	return 3, nil
}

func (f *fakeRepo) CountActive(context.Context, string) (int64, error) {
	f.calls.Add(1)
	return 5, f.fail
}

func (f *fakeRepo) SumPaidRevenue(_ context.Context, _ string, from, _ time.Time) (int64, error) {
	f.calls.Add(1)
	f.monthFrom = from
	return 750000, nil
}

func (f *fakeRepo) CountPendingVerification(context.Context, string) (int64, error) {
	f.calls.Add(1)
	return 2, nil
}

func newTestService(repo Repository, c cache.Service) *service {
	svc := NewService(repo, c, wib, logger.NewNop()).(*service)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 0, 30, 0, 0, wib) }
	return svc
}

func TestBookingStats(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	stats, err := svc.BookingStats(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, &BookingStats{TodayBookings: 3, ActiveBookings: 5, MonthlyRevenue: 750000, PendingVerification: 2}, stats)
	assert.Equal(t, int32(4), repo.calls.Load())
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, wib), repo.dayFrom)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, wib), repo.monthFrom)
}

func TestBookingStatsPropagatesErrors(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("db gone")}
	svc := newTestService(repo, nil)

	_, err := svc.BookingStats(context.Background(), "")
	assert.EqualError(t, err, "db gone")
}

func TestStatsQueries(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, wib)
	to := from.AddDate(0, 1, 0)

	t.Run("without venue", func(t *testing.T) {
		sql, args, err := activeQuery("").ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT COUNT(*) FROM bookings b WHERE b.status IN (?,?)", sql)
		assert.Equal(t, []interface{}{"PAID", "WAITING_PAYMENT"}, args)
	})

	t.Run("revenue scoped to venue", func(t *testing.T) {
		sql, args, err := revenueQuery("v-1", from, to).ToSql()
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT COALESCE(SUM(b.total_price), 0) FROM bookings b JOIN fields f ON f.id = b.field_id "+
				"WHERE f.venue_id = ? AND b.status = ? AND b.created_at >= ? AND b.created_at < ?", sql)
		assert.Equal(t, []interface{}{"v-1", "PAID", from, to}, args)
	})

	t.Run("pending joins payments", func(t *testing.T) {
		sql, _, err := pendingQuery("").ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "JOIN payments p ON p.booking_id = b.id")
		assert.Contains(t, sql, "p.status = ?")
	})

	t.Run("today", func(t *testing.T) {
		_, args, err := todayQuery("", from, to).ToSql()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{from, to}, args)
	})
}
