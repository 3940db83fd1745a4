package roles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errRoleNotFound = errors.New("role not found")

type Repository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	ListWithAdminCount(ctx context.Context) ([]RoleListItem, error)
	ListAdmins(ctx context.Context, roleID uuid.UUID) ([]RoleAdmin, error)
	CountAdmins(ctx context.Context, roleID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, role *Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Role, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*Role, error) {
	var role Role
	if err := r.db.WithContext(ctx).Where(query, arg).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) ListWithAdminCount(ctx context.Context) ([]RoleListItem, error) {
	var items []RoleListItem
	err := r.db.WithContext(ctx).
		Table("admin_roles r").
		Select("r.id, r.name, r.description, r.created_at, r.updated_at, COUNT(a.id) AS admin_count").
		Joins("LEFT JOIN admins a ON a.role_id = r.id").
		Group("r.id").
		Order("r.created_at DESC").
		Scan(&items).Error
	return items, err
}

func (r *repository) ListAdmins(ctx context.Context, roleID uuid.UUID) ([]RoleAdmin, error) {
	admins := []RoleAdmin{}
	err := r.db.WithContext(ctx).
		Table("admins").
		Select("id, name, email, created_at").
		Where("role_id = ?", roleID).
		Order("created_at ASC").
		Scan(&admins).Error
	return admins, err
}

func (r *repository) CountAdmins(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("admins").Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Role{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Role{}, "id = ?", id).Error
}
