package analytics

import (
	"context"
	"strings"
	"time"

	"fieldbook/internal/shared/constants"
	"fieldbook/internal/slots"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type Service interface {
	BookingStats(ctx context.Context, venueID string) (*BookingStats, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	loc   *time.Location
	log   *logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service, loc *time.Location, log *logger.Logger) Service {
	if cacheService == nil {
		cacheService = cache.NewNoop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, cache: cacheService, loc: loc, log: log.WithComponent("analytics"), now: time.Now}
}

func (s *service) BookingStats(ctx context.Context, venueID string) (*BookingStats, error) {
	venueID = strings.TrimSpace(venueID)
	now := s.now()

	var stats BookingStats
	err := s.cache.GetOrSet(ctx, constants.BuildBookingStatsKey(venueID, now.In(s.loc)), constants.TTL_BOOKING_STATS,
		func() (interface{}, error) {
			return s.compute(ctx, venueID, now)
		}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// compute issues the four aggregates concurrently
func (s *service) compute(ctx context.Context, venueID string, now time.Time) (*BookingStats, error) {
	dayStart, dayEnd := slots.DayBounds(now, s.loc)
	monthStart, monthEnd := slots.MonthBounds(now, s.loc)

	var stats BookingStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountStartingBetween(gctx, venueID, dayStart, dayEnd)
		stats.TodayBookings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountActive(gctx, venueID)
		stats.ActiveBookings = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.SumPaidRevenue(gctx, venueID, monthStart, monthEnd)
		stats.MonthlyRevenue = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountPendingVerification(gctx, venueID)
		stats.PendingVerification = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("Failed to compute booking stats", "venue_id", venueID)
		return nil, err
	}
	return &stats, nil
}
