package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/shared/constants"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrVenueNotFound = apperror.NotFound("Venue not found")
	ErrVenueExists   = apperror.Conflict("Venue already exists")
	ErrVenueInUse    = apperror.BadRequest("Venue still has dependents")
)

type Service interface {
	Create(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	List(ctx context.Context, filters VenueFilters) ([]VenueListItem, *response.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*VenueDetail, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*Venue, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists is used by admin registration and field creation
	Exists(ctx context.Context, id uuid.UUID) (*Venue, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   log.WithComponent("venues"),
	}
}

func (s *service) Create(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	venue := &Venue{
		Name:        name,
		Address:     strings.TrimSpace(req.Address),
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Venue created", "venue_id", venue.ID, "name", venue.Name)
	return venue, nil
}

func (s *service) List(ctx context.Context, filters VenueFilters) ([]VenueListItem, *response.Meta, error) {
	filters.Page, filters.Limit = response.NormalizePage(filters.Page, filters.Limit, 10, 100)
	filters.Search = strings.TrimSpace(filters.Search)

	result, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list venues: %w", err)
	}

	return result.Venues, response.NewMeta(result.Total, filters.Page, filters.Limit), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VenueDetail, error) {
	var detail VenueDetail
	err := s.cache.GetOrSet(ctx, constants.BuildVenueDetailKey(id.String()), constants.TTL_VENUE_DETAIL,
		func() (interface{}, error) {
			return s.loadDetail(ctx, id)
		}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) loadDetail(ctx context.Context, id uuid.UUID) (*VenueDetail, error) {
	venue, err := s.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.repo.ListFields(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue fields: %w", err)
	}

	admins, err := s.repo.ListAdmins(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue admins: %w", err)
	}

	return &VenueDetail{Venue: *venue, Fields: fields, Admins: admins}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*Venue, error) {
	existing, err := s.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
			updates["name"] = name
		}
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update venue: %w", err)
		}
		s.invalidate(ctx)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	venue, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}

	fields, admins, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count venue dependents: %w", err)
	}
	if fields > 0 {
		return apperror.Wrapf(ErrVenueInUse, "Venue cannot be deleted while it has %d field(s)", fields)
	}
	if admins > 0 {
		return apperror.Wrapf(ErrVenueInUse, "Venue cannot be deleted while it has %d admin(s)", admins)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Venue deleted", "venue_id", id, "name", venue.Name)
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (*Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return apperror.Wrapf(ErrVenueExists, "Venue %q already exists", name)
	}
	if !errors.Is(err, errVenueNotFound) {
		return fmt.Errorf("failed to check venue name: %w", err)
	}
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_VENUES_ALL); err != nil {
		s.log.WithError(err).Warn("failed to invalidate venue cache")
	}
}
