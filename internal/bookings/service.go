package bookings

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"fieldbook/internal/customers"
	"fieldbook/internal/fields"
	"fieldbook/internal/pricing"
	"fieldbook/internal/shared/constants"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/internal/uploads"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/metrics"

	"github.com/google/uuid"
)

// CustomerLookup resolves the booking customer
type CustomerLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*customers.Customer, error)
}

// FieldLookup resolves a field together with its price tiers
type FieldLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*fields.Field, error)
}

// Service is the customer side of the booking lifecycle
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest, proof *multipart.FileHeader) (*BookingDetail, error)
	MyBookings(ctx context.Context, customerID uuid.UUID, filters MyBookingsFilters) ([]MyBookingItem, *response.Meta, error)
	Get(ctx context.Context, customerID, bookingID uuid.UUID) (*BookingDetail, error)
	UploadPaymentProof(ctx context.Context, customerID, bookingID uuid.UUID, proofURL string, proof *multipart.FileHeader) (*PaymentProofResult, error)
	Cancel(ctx context.Context, customerID, bookingID uuid.UUID, reason string) (*Booking, error)
}

// Deps groups what both booking services share
type Deps struct {
	Repo      Repository
	Customers CustomerLookup
	Fields    FieldLookup
	Storage   uploads.Storage
	Cache     cache.Service
	Metrics   *metrics.Metrics
	Location  *time.Location
	Log       *logger.Logger
}

type service struct {
	repo      Repository
	customers CustomerLookup
	fields    FieldLookup
	storage   uploads.Storage
	cache     cache.Service
	metrics   *metrics.Metrics
	loc       *time.Location
	log       *logger.Logger
	now       func() time.Time
}

func NewService(deps Deps) Service {
	return newService(deps, "bookings")
}

func newService(deps Deps, component string) *service {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	cacheService := deps.Cache
	if cacheService == nil {
		cacheService = cache.NewNoop()
	}
	return &service{
		repo:      deps.Repo,
		customers: deps.Customers,
		fields:    deps.Fields,
		storage:   deps.Storage,
		cache:     cacheService,
		metrics:   deps.Metrics,
		loc:       loc,
		log:       deps.Log.WithComponent(component),
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest, proof *multipart.FileHeader) (*BookingDetail, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		return nil, fields.ErrFieldNotFound
	}
	field, err := s.fields.Get(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if !field.IsActive {
		return nil, ErrFieldInactive
	}

	slot, err := req.Window(s.loc)
	if err != nil {
		return nil, err
	}
	if slot.Start.Before(s.now()) {
		return nil, ErrPastSlot
	}

	total, err := pricing.Calculate(field.Tiers(), slot.Start, slot.End, s.loc)
	if err != nil {
		return nil, err
	}

	proofURL, err := s.resolveProof(ctx, req.ProofURL, proof)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		CustomerID: customerID,
		FieldID:    field.ID,
		StartTime:  slot.Start,
		EndTime:    slot.End,
		TotalPrice: total,
		Status:     StatusPending,
	}
	var payment *Payment
	if proofURL != "" {
		booking.Status = StatusWaitingPayment
		payment = &Payment{ProofURL: proofURL, Status: PaymentWaitingVerification}
	}

	if err := s.repo.CreateWithNoOverlap(ctx, booking, payment); err != nil {
		if proof != nil {
			s.discardUpload(ctx, proofURL)
		}
		if errors.Is(err, ErrSlotConflict) {
			s.metrics.BookingConflict()
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.metrics.BookingCreated()
	s.log.LogBookingCreated(ctx, booking.ID.String(), field.ID.String(), customerID.String(), total)
	s.invalidateStats(ctx)

	created, err := s.repo.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return newBookingDetail(created, s.loc), nil
}

func (s *service) MyBookings(ctx context.Context, customerID uuid.UUID, filters MyBookingsFilters) ([]MyBookingItem, *response.Meta, error) {
	filters.Page, filters.Limit = response.NormalizePage(filters.Page, filters.Limit, 20, 100)
	filters.Status = strings.ToUpper(strings.TrimSpace(filters.Status))

	rows, total, err := s.repo.ListByCustomer(ctx, customerID, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	items := make([]MyBookingItem, 0, len(rows))
	for i := range rows {
		items = append(items, newMyBookingItem(&rows[i], s.loc))
	}
	return items, response.NewMeta(total, filters.Page, filters.Limit), nil
}

func (s *service) Get(ctx context.Context, customerID, bookingID uuid.UUID) (*BookingDetail, error) {
	booking, err := s.owned(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}
	return newBookingDetail(booking, s.loc), nil
}

func (s *service) UploadPaymentProof(ctx context.Context, customerID, bookingID uuid.UUID, proofURL string, proof *multipart.FileHeader) (*PaymentProofResult, error) {
	booking, err := s.owned(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}
	// fail before storing a file we would throw away; the repository re-checks under lock
	if err := checkProofAllowed(booking.Status); err != nil {
		return nil, err
	}

	url, err := s.resolveProof(ctx, &proofURL, proof)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, ErrProofRequired
	}

	payment, err := s.repo.SavePaymentProof(ctx, bookingID, url)
	if err != nil {
		if proof != nil {
			s.discardUpload(ctx, url)
		}
		return nil, s.mapNotFound(err)
	}
	s.log.LogPaymentProofUploaded(ctx, bookingID.String(), customerID.String())
	s.invalidateStats(ctx)

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return &PaymentProofResult{Booking: updated, Payment: payment}, nil
}

func (s *service) Cancel(ctx context.Context, customerID, bookingID uuid.UUID, reason string) (*Booking, error) {
	booking, err := s.owned(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkCancelAllowed(booking.Status); err != nil {
		return nil, err
	}

	if err := s.repo.Cancel(ctx, bookingID, booking.Status); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, s.cancelRaceError(ctx, bookingID, err)
		}
		return nil, err
	}
	s.metrics.BookingCancelled()
	s.log.LogBookingCancelled(ctx, bookingID.String(), customerID.String(), strings.TrimSpace(reason))
	s.invalidateStats(ctx)

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return updated, nil
}

// cancelRaceError reports what a concurrent writer left behind, so a lost
// cancel race answers like a sequential repeat would.
func (s *service) cancelRaceError(ctx context.Context, bookingID uuid.UUID, raceErr error) error {
	current, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return s.mapNotFound(err)
	}
	if err := checkCancelAllowed(current.Status); err != nil {
		return err
	}
	return raceErr
}

// owned loads a booking and checks it belongs to customerID
func (s *service) owned(ctx context.Context, customerID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if booking.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

// resolveProof stores an uploaded file or falls back to the given URL
func (s *service) resolveProof(ctx context.Context, proofURL *string, file *multipart.FileHeader) (string, error) {
	if file != nil {
		url, err := s.storage.Save(ctx, file, uploads.FolderPaymentProofs)
		if err != nil {
			return "", err
		}
		return url, nil
	}
	if proofURL == nil {
		return "", nil
	}
	return strings.TrimSpace(*proofURL), nil
}

// discardUpload removes a stored proof that no row ended up referencing
func (s *service) discardUpload(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		s.log.Warn("Failed to remove orphaned upload", "url", url, "error", err)
	}
}

func (s *service) invalidateStats(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ANALYTICS); err != nil {
		s.log.Warn("Failed to invalidate booking stats cache", "error", err)
	}
}

func (s *service) mapNotFound(err error) error {
	if errors.Is(err, errNotFound) {
		return ErrBookingNotFound
	}
	return err
}
