package venues

import (
	"context"
	"errors"
	"fmt"

	"fieldbook/internal/shared/utils/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errVenueNotFound = errors.New("venue not found")

type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetByName(ctx context.Context, name string) (*Venue, error)
	List(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error)
	ListFields(ctx context.Context, venueID uuid.UUID) ([]VenueField, error)
	ListAdmins(ctx context.Context, venueID uuid.UUID) ([]VenueAdmin, error)
	CountDependents(ctx context.Context, venueID uuid.UUID) (fields int64, admins int64, err error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Venue, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*Venue, error) {
	var venue Venue
	if err := r.db.WithContext(ctx).Where(query, arg).First(&venue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

func (r *repository) List(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error) {
	query := r.db.WithContext(ctx).Model(&Venue{})
	if filters.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("venues.name ILIKE ? OR venues.address ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []VenueListItem{}
	err := query.
		Select(`venues.*,
			(SELECT COUNT(*) FROM fields f WHERE f.venue_id = venues.id) AS field_count,
			(SELECT COUNT(*) FROM admins a WHERE a.venue_id = venues.id) AS admin_count`).
		Order("venues.created_at DESC").
		Offset(response.Offset(filters.Page, filters.Limit)).
		Limit(filters.Limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return &PaginatedVenues{Venues: items, Total: total}, nil
}

func (r *repository) ListFields(ctx context.Context, venueID uuid.UUID) ([]VenueField, error) {
	fields := []VenueField{}
	err := r.db.WithContext(ctx).
		Table("fields").
		Select("id, name, type, is_active, created_at").
		Where("venue_id = ?", venueID).
		Order("name ASC").
		Scan(&fields).Error
	return fields, err
}

func (r *repository) ListAdmins(ctx context.Context, venueID uuid.UUID) ([]VenueAdmin, error) {
	admins := []VenueAdmin{}
	err := r.db.WithContext(ctx).
		Table("admins a").
		Select("a.id, a.name, a.email, r.name AS role_name").
		Joins("LEFT JOIN admin_roles r ON r.id = a.role_id").
		Where("a.venue_id = ?", venueID).
		Order("a.name ASC").
		Scan(&admins).Error
	return admins, err
}

func (r *repository) CountDependents(ctx context.Context, venueID uuid.UUID) (int64, int64, error) {
	var fields, admins int64
	if err := r.db.WithContext(ctx).Table("fields").Where("venue_id = ?", venueID).Count(&fields).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Table("admins").Where("venue_id = ?", venueID).Count(&admins).Error; err != nil {
		return 0, 0, err
	}
	return fields, admins, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Venue{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Venue{}, "id = ?", id).Error
}
