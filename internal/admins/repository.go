package admins

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errAdminNotFound = errors.New("admin not found")

type Repository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, admin *Admin) error {
	admin.Email = normalizeEmail(admin.Email)
	if err := r.db.WithContext(ctx).Omit("Role", "Venue").Create(admin).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Role").Preload("Venue").First(admin, "id = ?", admin.ID).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*Admin, error) {
	var admin Admin
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Venue").
		Where(query, arg).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Admin{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
