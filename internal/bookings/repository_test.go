package bookings_test

import (
	"context"
	"os"
	"testing"
	"time"

	"fieldbook/internal/bookings"
	"fieldbook/internal/customers"
	"fieldbook/internal/fields"
	"fieldbook/internal/shared/database"
	"fieldbook/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Runs against a disposable Postgres, e.g.
// FIELDBOOK_TEST_DATABASE_DSN="host=localhost user=fieldbook_user password=fieldbook_password dbname=fieldbook_test sslmode=disable"
const testDSNEnv = "FIELDBOOK_TEST_DATABASE_DSN"

type pgFixture struct {
	db       *gorm.DB
	repo     bookings.Repository
	customer uuid.UUID
	field    uuid.UUID
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.MigrateConstraints(db))

	suffix := uuid.NewString()[:8]
	venue := &venues.Venue{Name: "Arena " + suffix, Address: "Jl. Kuningan"}
	require.NoError(t, db.Create(venue).Error)
	field := &fields.Field{VenueID: venue.ID, Name: "Court " + suffix, Type: fields.TypeFutsal, IsActive: true}
	require.NoError(t, db.Omit("Images", "Prices").Create(field).Error)
	customer := &customers.Customer{Email: suffix + "@example.com", Password: "x", Name: "Rani"}
	require.NoError(t, db.Create(customer).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM payments WHERE booking_id IN (SELECT id FROM bookings WHERE field_id = ?)", field.ID)
		db.Exec("DELETE FROM bookings WHERE field_id = ?", field.ID)
		db.Exec("DELETE FROM fields WHERE id = ?", field.ID)
		db.Exec("DELETE FROM venues WHERE id = ?", venue.ID)
		db.Exec("DELETE FROM customers WHERE id = ?", customer.ID)
	})

	return &pgFixture{db: db, repo: bookings.NewRepository(db), customer: customer.ID, field: field.ID}
}

// Monday 2030-01-07
var pgDay = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func (f *pgFixture) create(t *testing.T, fromHour, toHour int, payment *bookings.Payment) (*bookings.Booking, error) {
	t.Helper()
	status := bookings.StatusPending
	if payment != nil {
		status = bookings.StatusWaitingPayment
	}
	b := &bookings.Booking{
		CustomerID: f.customer,
		FieldID:    f.field,
		StartTime:  pgDay.Add(time.Duration(fromHour) * time.Hour),
		EndTime:    pgDay.Add(time.Duration(toHour) * time.Hour),
		TotalPrice: 100000,
		Status:     status,
	}
	return b, f.repo.CreateWithNoOverlap(context.Background(), b, payment)
}

func TestRepositoryOverlap(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	first, err := f.create(t, 10, 11, nil)
	require.NoError(t, err)

	_, err = f.create(t, 10, 12, nil)
	assert.ErrorIs(t, err, bookings.ErrSlotConflict)

	_, err = f.create(t, 11, 12, nil)
	assert.NoError(t, err, "adjacent slots do not overlap")

	// the exclusion constraint backs the locked check up
	raw := &bookings.Booking{CustomerID: f.customer, FieldID: f.field,
		StartTime: pgDay.Add(10 * time.Hour), EndTime: pgDay.Add(11 * time.Hour), Status: bookings.StatusPending}
	err = f.db.Omit("Payment").Create(raw).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), bookings.ExclusionConstraintName)

	require.NoError(t, f.repo.Cancel(ctx, first.ID, bookings.StatusPending))
	_, err = f.create(t, 10, 11, nil)
	assert.NoError(t, err, "a cancelled booking frees its slot")
}

func TestRepositoryProofUpsertAndCancel(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	b, err := f.create(t, 14, 15, nil)
	require.NoError(t, err)

	_, err = f.repo.SavePaymentProof(ctx, b.ID, "https://files.test/one.png")
	require.NoError(t, err)
	p, err := f.repo.SavePaymentProof(ctx, b.ID, "https://files.test/two.png")
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/two.png", p.ProofURL)

	var payments int64
	require.NoError(t, f.db.Model(&bookings.Payment{}).Where("booking_id = ?", b.ID).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)

	require.NoError(t, f.repo.Cancel(ctx, b.ID, bookings.StatusWaitingPayment))
	assert.ErrorIs(t, f.repo.Cancel(ctx, b.ID, bookings.StatusWaitingPayment), bookings.ErrStatusChanged)

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, got.Status)
	assert.Equal(t, bookings.PaymentRejected, got.Payment.Status)

	_, err = f.repo.ApplyVerification(ctx, b.ID, bookings.Verification{Approved: true, AdminID: uuid.New(), At: time.Now()})
	assert.ErrorIs(t, err, bookings.ErrAlreadyVerified)

	_, err = f.repo.SavePaymentProof(ctx, b.ID, "https://files.test/three.png")
	assert.ErrorIs(t, err, bookings.ErrAlreadyCancelled)
}

func TestRepositoryVerificationRollsBackOnClosedBooking(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	b, err := f.create(t, 16, 17, &bookings.Payment{ProofURL: "https://files.test/p.png", Status: bookings.PaymentWaitingVerification})
	require.NoError(t, err)

	// booking closed while its payment still waits
	require.NoError(t, f.db.Model(&bookings.Booking{}).Where("id = ?", b.ID).Update("status", bookings.StatusCancelled).Error)

	_, err = f.repo.ApplyVerification(ctx, b.ID, bookings.Verification{Approved: true, AdminID: uuid.New(), At: time.Now()})
	assert.ErrorIs(t, err, bookings.ErrAlreadyCancelled)

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, got.Status)
	assert.Equal(t, bookings.PaymentWaitingVerification, got.Payment.Status)
	assert.Nil(t, got.Payment.VerifiedAt)
}

func TestRepositoryApproveThenComplete(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	b, err := f.create(t, 18, 19, &bookings.Payment{ProofURL: "https://files.test/p.png", Status: bookings.PaymentWaitingVerification})
	require.NoError(t, err)

	note := "ok"
	p, err := f.repo.ApplyVerification(ctx, b.ID, bookings.Verification{Approved: true, AdminID: uuid.New(), Note: &note, At: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, bookings.PaymentApproved, p.Status)

	_, err = f.repo.ApplyVerification(ctx, b.ID, bookings.Verification{Approved: false, AdminID: uuid.New(), At: time.Now()})
	assert.ErrorIs(t, err, bookings.ErrAlreadyVerified)

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusPaid, got.Status)
	require.NotNil(t, got.Payment.Note)
	assert.Equal(t, "ok", *got.Payment.Note)

	moved, err := f.repo.CompleteFinished(ctx, pgDay.Add(19*time.Hour), 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, moved, int64(1))

	got, err = f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCompleted, got.Status)
}
