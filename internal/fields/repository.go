package fields

import (
	"context"
	"errors"
	"fmt"

	"fieldbook/internal/shared/utils/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errFieldNotFound = errors.New("field not found")
	errPriceNotFound = errors.New("field price not found")
)

type Repository interface {
	Create(ctx context.Context, field *Field) error
	GetByID(ctx context.Context, id uuid.UUID) (*Field, error)
	GetByName(ctx context.Context, name string) (*Field, error)
	List(ctx context.Context, filters FieldFilters) (*PaginatedFields, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, images *[]FieldImage, prices *[]FieldPrice) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBookings(ctx context.Context, id uuid.UUID) (int64, error)

	AddImage(ctx context.Context, image *FieldImage) error
	CountImages(ctx context.Context, fieldID uuid.UUID) (int64, error)

	ListPrices(ctx context.Context, fieldID uuid.UUID) ([]FieldPrice, error)
	GetPrice(ctx context.Context, priceID uuid.UUID) (*FieldPrice, error)
	CreatePrice(ctx context.Context, price *FieldPrice) error
	UpdatePrice(ctx context.Context, price *FieldPrice) error
	DeletePrice(ctx context.Context, priceID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, field *Field) error {
	return r.db.WithContext(ctx).Omit("Venue").Create(field).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Field, error) {
	field, err := r.first(ctx, "fields.id = ?", id)
	if err != nil {
		return nil, err
	}
	if field.BookingCount, err = r.CountBookings(ctx, id); err != nil {
		return nil, err
	}
	return field, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Field, error) {
	var field Field
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errFieldNotFound
		}
		return nil, err
	}
	return &field, nil
}

func (r *repository) first(ctx context.Context, query string, args ...interface{}) (*Field, error) {
	var field Field
	err := r.withDetails(r.db.WithContext(ctx)).
		Where(query, args...).
		First(&field).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errFieldNotFound
		}
		return nil, err
	}
	return &field, nil
}

func (r *repository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Venue").
		Preload("Prices", func(db *gorm.DB) *gorm.DB { return db.Order(priceOrder) }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order(imageOrder) })
}

func (r *repository) List(ctx context.Context, filters FieldFilters) (*PaginatedFields, error) {
	query := r.db.WithContext(ctx).Model(&Field{})

	if filters.Search != "" {
		query = query.Where("fields.name ILIKE ?", fmt.Sprintf("%%%s%%", filters.Search))
	}
	if filters.VenueID != "" {
		query = query.Where("fields.venue_id = ?", filters.VenueID)
	}
	if filters.Type != "" {
		query = query.Where("fields.type = ?", filters.Type)
	}
	if filters.IsActive != nil {
		query = query.Where("fields.is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []Field{}
	err := r.withDetails(query).
		Order("fields.created_at DESC").
		Offset(response.Offset(filters.Page, filters.Limit)).
		Limit(filters.Limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := r.attachBookingCounts(ctx, items); err != nil {
			return nil, err
		}
	}

	return &PaginatedFields{Fields: items, Total: total}, nil
}

func (r *repository) attachBookingCounts(ctx context.Context, items []Field) error {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	var rows []struct {
		FieldID uuid.UUID
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("field_id, COUNT(*) AS count").
		Where("field_id IN ?", ids).
		Group("field_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.FieldID] = row.Count
	}
	for i := range items {
		items[i].BookingCount = counts[items[i].ID]
	}
	return nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, images *[]FieldImage, prices *[]FieldPrice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if images != nil {
			if err := tx.Where("field_id = ?", id).Delete(&FieldImage{}).Error; err != nil {
				return err
			}
			if len(*images) > 0 {
				if err := tx.Create(images).Error; err != nil {
					return err
				}
			}
		}

		if prices != nil {
			if err := tx.Where("field_id = ?", id).Delete(&FieldPrice{}).Error; err != nil {
				return err
			}
			if len(*prices) > 0 {
				if err := tx.Create(prices).Error; err != nil {
					return err
				}
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&Field{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&FieldPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("field_id = ?", id).Delete(&FieldImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Field{}, "id = ?", id).Error
	})
}

func (r *repository) CountBookings(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("bookings").Where("field_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repository) AddImage(ctx context.Context, image *FieldImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *repository) CountImages(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FieldImage{}).Where("field_id = ?", fieldID).Count(&count).Error
	return count, err
}

func (r *repository) ListPrices(ctx context.Context, fieldID uuid.UUID) ([]FieldPrice, error) {
	prices := []FieldPrice{}
	err := r.db.WithContext(ctx).Where("field_id = ?", fieldID).Order(priceOrder).Find(&prices).Error
	return prices, err
}

func (r *repository) GetPrice(ctx context.Context, priceID uuid.UUID) (*FieldPrice, error) {
	var price FieldPrice
	if err := r.db.WithContext(ctx).Where("id = ?", priceID).First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPriceNotFound
		}
		return nil, err
	}
	return &price, nil
}

func (r *repository) CreatePrice(ctx context.Context, price *FieldPrice) error {
	return r.db.WithContext(ctx).Create(price).Error
}

func (r *repository) UpdatePrice(ctx context.Context, price *FieldPrice) error {
	return r.db.WithContext(ctx).Model(price).Select("day_type", "start_hour", "end_hour", "price").Updates(price).Error
}

func (r *repository) DeletePrice(ctx context.Context, priceID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&FieldPrice{}, "id = ?", priceID).Error
}
