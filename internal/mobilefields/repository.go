package mobilefields

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/bookings"
	"fieldbook/internal/fields"
	"fieldbook/internal/shared/utils/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("field not found")

type Repository interface {
	ListActive(ctx context.Context, query ListQuery) ([]fields.Field, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*fields.Field, error)
	// BusyFieldIDs returns which of ids have a blocking booking overlapping [start, end)
	BusyFieldIDs(ctx context.Context, ids []uuid.UUID, start, end time.Time) (map[uuid.UUID]bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func withCatalog(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Venue").
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_type ASC, start_hour ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, created_at ASC")
		})
}

func (r *repository) ListActive(ctx context.Context, query ListQuery) ([]fields.Field, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&fields.Field{}).
		Joins("JOIN venues ON venues.id = fields.venue_id").
		Where("fields.is_active = ?", true)

	if query.VenueID != "" {
		q = q.Where("fields.venue_id = ?", query.VenueID)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		q = q.Where("fields.name ILIKE ? OR venues.name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []fields.Field{}
	err := withCatalog(q).
		Order("fields.created_at DESC").
		Offset(response.Offset(query.Page, query.Limit)).
		Limit(query.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*fields.Field, error) {
	var field fields.Field
	err := withCatalog(r.db.WithContext(ctx)).Where("id = ?", id).First(&field).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &field, nil
}

func (r *repository) BusyFieldIDs(ctx context.Context, ids []uuid.UUID, start, end time.Time) (map[uuid.UUID]bool, error) {
	busy := make(map[uuid.UUID]bool)
	if len(ids) == 0 {
		return busy, nil
	}

	var rows []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Distinct("field_id").
		Where("field_id IN ?", ids).
		Where("status <> ?", bookings.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start).
		Pluck("field_id", &rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range rows {
		busy[id] = true
	}
	return busy, nil
}
