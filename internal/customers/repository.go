package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, customer *Customer) error {
	customer.Email = normalizeEmail(customer.Email)
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	var customer Customer
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var customer Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Customer{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
