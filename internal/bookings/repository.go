package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldbook/internal/shared/utils/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNotFound = errors.New("booking not found")

const cancelledByCustomerNote = "Booking cancelled by customer"

// ExclusionConstraintName is reported by Postgres (SQLSTATE 23P01) when two
// live bookings of one field overlap.
const ExclusionConstraintName = "bookings_no_overlap"

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

type Repository interface {
	// CreateWithNoOverlap inserts the booking (and payment, when given) only
	// if no blocking booking overlaps it.
	CreateWithNoOverlap(ctx context.Context, booking *Booking, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filters MyBookingsFilters) ([]Booking, int64, error)
	ListAll(ctx context.Context, filters AdminBookingFilters) ([]Booking, int64, error)
	ListPendingVerification(ctx context.Context, filters PendingFilters) ([]Booking, int64, error)

	// Cancel moves a booking from `from` to CANCELLED and rejects a payment
	// still waiting for verification. It fails with ErrStatusChanged if
	// someone else moved the booking first.
	Cancel(ctx context.Context, id uuid.UUID, from Status) error
	SavePaymentProof(ctx context.Context, bookingID uuid.UUID, proofURL string) (*Payment, error)
	ApplyVerification(ctx context.Context, bookingID uuid.UUID, v Verification) (*Payment, error)

	// CompleteFinished marks up to limit PAID bookings ending at or before
	// before as COMPLETED and returns how many it moved.
	CompleteFinished(ctx context.Context, before time.Time, limit int) (int64, error)
}

// Verification is the admin decision written by ApplyVerification
type Verification struct {
	Approved bool
	AdminID  uuid.UUID
	Note     *string
	At       time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithNoOverlap(ctx context.Context, booking *Booking, payment *Payment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize concurrent creations for the same field
		var locked struct{ ID uuid.UUID }
		err := tx.Table("fields").
			Select("id").
			Where("id = ?", booking.FieldID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&locked).Error
		if err != nil {
			return fmt.Errorf("failed to lock field: %w", err)
		}

		var overlapping int64
		err = tx.Model(&Booking{}).
			Where("field_id = ?", booking.FieldID).
			Where("status <> ?", StatusCancelled).
			Where("start_time < ? AND end_time > ?", booking.EndTime, booking.StartTime).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to check overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return ErrSlotConflict
		}

		if err := tx.Omit("Customer", "Field", "Payment").Create(booking).Error; err != nil {
			return err
		}

		if payment != nil {
			payment.BookingID = booking.ID
			if err := tx.Omit("VerifiedBy").Create(payment).Error; err != nil {
				return err
			}
			booking.Payment = payment
		}
		return nil
	})

	return mapConstraintError(err)
}

// mapConstraintError turns the storage-level overlap backstop into ErrSlotConflict
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == ExclusionConstraintName {
			return ErrSlotConflict
		}
		if pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("duplicate row: %w", err)
		}
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := withRelations(r.db.WithContext(ctx)).
		Where("bookings.id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Field").
		Preload("Field.Venue").
		Preload("Field.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, created_at ASC")
		}).
		Preload("Payment").
		Preload("Payment.VerifiedBy")
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, filters MyBookingsFilters) ([]Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&Booking{}).Where("customer_id = ?", customerID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []Booking{}
	err := query.
		Preload("Field").
		Order("created_at DESC").
		Offset(response.Offset(filters.Page, filters.Limit)).
		Limit(filters.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *repository) ListAll(ctx context.Context, filters AdminBookingFilters) ([]Booking, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&Booking{}).
		Joins("JOIN customers ON customers.id = bookings.customer_id").
		Joins("JOIN fields ON fields.id = bookings.field_id").
		Joins("JOIN venues ON venues.id = fields.venue_id")

	if filters.FieldID != "" {
		query = query.Where("bookings.field_id = ?", filters.FieldID)
	}
	if filters.Status != "" {
		query = query.Where("bookings.status = ?", filters.Status)
	}
	if filters.VenueID != "" {
		query = query.Where("fields.venue_id = ?", filters.VenueID)
	}
	if filters.From != nil {
		query = query.Where("bookings.start_time >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("bookings.start_time < ?", *filters.To)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"bookings.id::text ILIKE ? OR customers.name ILIKE ? OR customers.email ILIKE ? OR fields.name ILIKE ? OR venues.name ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []Booking{}
	err := withRelations(query).
		Order("bookings.created_at DESC").
		Offset(response.Offset(filters.Page, filters.Limit)).
		Limit(filters.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *repository) ListPendingVerification(ctx context.Context, filters PendingFilters) ([]Booking, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&Booking{}).
		Joins("JOIN payments ON payments.booking_id = bookings.id").
		Where("payments.status = ?", PaymentWaitingVerification)

	if filters.VenueID != "" {
		query = query.
			Joins("JOIN fields ON fields.id = bookings.field_id").
			Where("fields.venue_id = ?", filters.VenueID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []Booking{}
	err := withRelations(query).
		Order("bookings.created_at DESC").
		Offset(response.Offset(filters.Page, filters.Limit)).
		Limit(filters.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, from Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", StatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusChanged
		}

		return tx.Model(&Payment{}).
			Where("booking_id = ? AND status = ?", id, PaymentWaitingVerification).
			Updates(map[string]interface{}{
				"status": PaymentRejected,
				"note":   cancelledByCustomerNote,
			}).Error
	})
}

func (r *repository) CompleteFinished(ctx context.Context, before time.Time, limit int) (int64, error) {
	batch := r.db.Model(&Booking{}).
		Select("id").
		Where("status = ? AND end_time <= ?", StatusPaid, before).
		Order("end_time").
		Limit(limit)

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id IN (?) AND status = ?", batch, StatusPaid).
		Update("status", StatusCompleted)
	return result.RowsAffected, result.Error
}

func (r *repository) SavePaymentProof(ctx context.Context, bookingID uuid.UUID, proofURL string) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			Take(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		if err := checkProofAllowed(booking.Status); err != nil {
			return err
		}

		payment = Payment{
			BookingID: bookingID,
			ProofURL:  proofURL,
			Status:    PaymentWaitingVerification,
		}
		err = tx.Omit("VerifiedBy").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "booking_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"proof_url":      proofURL,
				"status":         PaymentWaitingVerification,
				"verified_by_id": nil,
				"verified_at":    nil,
				"note":           nil,
				"updated_at":     time.Now(),
			}),
		}).Create(&payment).Error
		if err != nil {
			return err
		}

		if err := tx.Where("booking_id = ?", bookingID).Take(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Update("status", StatusWaitingPayment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ApplyVerification(ctx context.Context, bookingID uuid.UUID, v Verification) (*Payment, error) {
	paymentStatus, bookingStatus := PaymentRejected, StatusCancelled
	if v.Approved {
		paymentStatus, bookingStatus = PaymentApproved, StatusPaid
	}

	var payment Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Payment{}).
			Where("booking_id = ? AND status = ?", bookingID, PaymentWaitingVerification).
			Updates(map[string]interface{}{
				"status":         paymentStatus,
				"verified_by_id": v.AdminID,
				"verified_at":    v.At,
				"note":           v.Note,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyVerified
		}

		result = tx.Model(&Booking{}).
			Where("id = ? AND status NOT IN ?", bookingID, []Status{StatusCancelled, StatusCompleted}).
			Update("status", bookingStatus)
		if result.Error != nil {
			return mapConstraintError(result.Error)
		}
		if result.RowsAffected == 0 {
			return closedBookingError(tx, bookingID)
		}

		return tx.Preload("VerifiedBy").Where("booking_id = ?", bookingID).Take(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// closedBookingError explains why a booking row refused a verification update
func closedBookingError(tx *gorm.DB, bookingID uuid.UUID) error {
	var booking Booking
	if err := tx.Select("status").Where("id = ?", bookingID).Take(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound
		}
		return err
	}
	if err := checkVerifyAllowed(booking.Status); err != nil {
		return err
	}
	return ErrStatusChanged
}
