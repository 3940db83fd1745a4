package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldbook/internal/shared/utils/response"
	"fieldbook/internal/slots"

	"github.com/google/uuid"
)

// AdminService is the back-office view of bookings and payment verification
type AdminService interface {
	List(ctx context.Context, filters AdminBookingFilters) ([]*BookingDetail, *response.Meta, error)
	Get(ctx context.Context, bookingID uuid.UUID) (*BookingDetail, error)
	PendingVerification(ctx context.Context, filters PendingFilters) ([]*BookingDetail, *response.Meta, error)
	VerifyPayment(ctx context.Context, adminID, bookingID uuid.UUID, req VerifyPaymentRequest) (*VerificationResult, error)
}

type adminService struct {
	*service
	notifier Notifier
}

func NewAdminService(deps Deps, notifier Notifier) AdminService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &adminService{service: newService(deps, "admin-bookings"), notifier: notifier}
}

func (s *adminService) List(ctx context.Context, filters AdminBookingFilters) ([]*BookingDetail, *response.Meta, error) {
	filters.Page, filters.Limit = response.NormalizePage(filters.Page, filters.Limit, 10, 100)
	filters.Search = strings.TrimSpace(filters.Search)
	filters.Status = strings.ToUpper(strings.TrimSpace(filters.Status))

	from, to, err := resolveDateRange(filters, s.now(), s.loc)
	if err != nil {
		return nil, nil, err
	}
	filters.From, filters.To = from, to

	rows, total, err := s.repo.ListAll(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return s.details(rows), response.NewMeta(total, filters.Page, filters.Limit), nil
}

func (s *adminService) Get(ctx context.Context, bookingID uuid.UUID) (*BookingDetail, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return newBookingDetail(booking, s.loc), nil
}

func (s *adminService) PendingVerification(ctx context.Context, filters PendingFilters) ([]*BookingDetail, *response.Meta, error) {
	filters.Page, filters.Limit = response.NormalizePage(filters.Page, filters.Limit, 10, 100)

	rows, total, err := s.repo.ListPendingVerification(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending verifications: %w", err)
	}
	return s.details(rows), response.NewMeta(total, filters.Page, filters.Limit), nil
}

func (s *adminService) VerifyPayment(ctx context.Context, adminID, bookingID uuid.UUID, req VerifyPaymentRequest) (*VerificationResult, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if err := checkVerifyAllowed(booking.Status); err != nil {
		return nil, err
	}
	if !booking.HasPayment() {
		return nil, ErrNoPayment
	}
	if booking.Payment.Status != PaymentWaitingVerification {
		return nil, ErrAlreadyVerified
	}

	approved := req.Approved != nil && *req.Approved
	note := req.Note
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			note = &trimmed
		}
	}

	payment, err := s.repo.ApplyVerification(ctx, bookingID, Verification{
		Approved: approved,
		AdminID:  adminID,
		Note:     note,
		At:       s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentVerified(approved)
	s.log.LogPaymentVerified(ctx, bookingID.String(), adminID.String(), approved)
	s.invalidateStats(ctx)

	updated, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	if err := s.notifier.NotifyPaymentVerified(ctx, newPaymentNotification(updated, approved, note, s.loc)); err != nil {
		s.log.LogNotificationFailed(ctx, bookingID.String(), err)
	}

	return &VerificationResult{Booking: updated, Payment: payment}, nil
}

func (s *adminService) details(rows []Booking) []*BookingDetail {
	items := make([]*BookingDetail, 0, len(rows))
	for i := range rows {
		items = append(items, newBookingDetail(&rows[i], s.loc))
	}
	return items
}

// resolveDateRange turns today/startDate/endDate into a [from, to) window on startTime.
// A bare date as endDate covers that whole day.
func resolveDateRange(filters AdminBookingFilters, now time.Time, loc *time.Location) (*time.Time, *time.Time, error) {
	if filters.Today {
		from, to := slots.DayBounds(now, loc)
		return &from, &to, nil
	}

	var from, to *time.Time
	if v := strings.TrimSpace(filters.StartDate); v != "" {
		t, err := parseDateOrTimestamp(v, loc)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := strings.TrimSpace(filters.EndDate); v != "" {
		t, err := parseDateOrTimestamp(v, loc)
		if err != nil {
			return nil, nil, err
		}
		if len(v) == len(slots.DateLayout) {
			t = t.AddDate(0, 0, 1)
		}
		to = &t
	}
	return from, to, nil
}

func parseDateOrTimestamp(value string, loc *time.Location) (time.Time, error) {
	if len(value) == len(slots.DateLayout) {
		return slots.ParseDate(value, loc)
	}
	return slots.ParseTimestamp(value, loc)
}
