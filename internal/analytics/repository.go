package analytics

import (
	"context"
	"fmt"
	"time"

	"fieldbook/internal/bookings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// Repository runs the dashboard aggregates. Every method is read-only and
// safe to call concurrently.
type Repository interface {
	CountStartingBetween(ctx context.Context, venueID string, from, to time.Time) (int64, error)
	CountActive(ctx context.Context, venueID string) (int64, error)
	SumPaidRevenue(ctx context.Context, venueID string, from, to time.Time) (int64, error)
	CountPendingVerification(ctx context.Context, venueID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// bookingsScope is the base SELECT over bookings, joined to fields when a venue filter applies
func bookingsScope(columns string, venueID string) sq.SelectBuilder {
	q := sq.Select(columns).From("bookings b")
	if venueID != "" {
		q = q.Join("fields f ON f.id = b.field_id").Where(sq.Eq{"f.venue_id": venueID})
	}
	return q
}

func todayQuery(venueID string, from, to time.Time) sq.SelectBuilder {
	return bookingsScope("COUNT(*)", venueID).
		Where(sq.GtOrEq{"b.start_time": from}).
		Where(sq.Lt{"b.start_time": to})
}

func activeQuery(venueID string) sq.SelectBuilder {
	return bookingsScope("COUNT(*)", venueID).
		Where(sq.Eq{"b.status": []string{string(bookings.StatusPaid), string(bookings.StatusWaitingPayment)}})
}

func revenueQuery(venueID string, from, to time.Time) sq.SelectBuilder {
	return bookingsScope("COALESCE(SUM(b.total_price), 0)", venueID).
		Where(sq.Eq{"b.status": string(bookings.StatusPaid)}).
		Where(sq.GtOrEq{"b.created_at": from}).
		Where(sq.Lt{"b.created_at": to})
}

func pendingQuery(venueID string) sq.SelectBuilder {
	return bookingsScope("COUNT(*)", venueID).
		Join("payments p ON p.booking_id = b.id").
		Where(sq.Eq{"p.status": string(bookings.PaymentWaitingVerification)})
}

func (r *repository) CountStartingBetween(ctx context.Context, venueID string, from, to time.Time) (int64, error) {
	return r.scalar(ctx, "today bookings", todayQuery(venueID, from, to))
}

func (r *repository) CountActive(ctx context.Context, venueID string) (int64, error) {
	return r.scalar(ctx, "active bookings", activeQuery(venueID))
}

func (r *repository) SumPaidRevenue(ctx context.Context, venueID string, from, to time.Time) (int64, error) {
	return r.scalar(ctx, "monthly revenue", revenueQuery(venueID, from, to))
}

func (r *repository) CountPendingVerification(ctx context.Context, venueID string) (int64, error) {
	return r.scalar(ctx, "pending verification", pendingQuery(venueID))
}

// scalar runs a single-value aggregate; squirrel's ? placeholders are rebound by gorm
func (r *repository) scalar(ctx context.Context, name string, builder sq.SelectBuilder) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s query: %w", name, err)
	}

	var value int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
