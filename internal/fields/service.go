package fields

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"fieldbook/internal/pricing"
	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/shared/constants"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/internal/uploads"
	"fieldbook/internal/venues"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrFieldNotFound = apperror.NotFound("Field not found")
	ErrFieldExists   = apperror.Conflict("Field already exists")
	ErrFieldInUse    = apperror.BadRequest("Field still has bookings")
	ErrInvalidField  = apperror.BadRequest("Invalid field data")
	ErrPriceNotFound = apperror.NotFound("Field price not found for this field")
)

const maxImages = 10

// VenueLookup resolves the venue a field belongs to
type VenueLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

type Service interface {
	Create(ctx context.Context, req CreateFieldRequest) (*Field, error)
	List(ctx context.Context, filters FieldFilters) ([]Field, *response.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*Field, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateFieldRequest) (*Field, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (*FieldImage, error)

	AddPrice(ctx context.Context, fieldID uuid.UUID, req PriceRequest) (*FieldPrice, error)
	ListPrices(ctx context.Context, fieldID uuid.UUID) ([]FieldPrice, error)
	UpdatePrice(ctx context.Context, fieldID, priceID uuid.UUID, req UpdatePriceRequest) (*FieldPrice, error)
	RemovePrice(ctx context.Context, fieldID, priceID uuid.UUID) error
}

type service struct {
	repo    Repository
	venues  VenueLookup
	cache   cache.Service
	storage uploads.Storage
	log     *logger.Logger
}

func NewService(repo Repository, venueLookup VenueLookup, cacheService cache.Service, storage uploads.Storage, log *logger.Logger) Service {
	return &service{
		repo:    repo,
		venues:  venueLookup,
		cache:   cacheService,
		storage: storage,
		log:     log.WithComponent("fields"),
	}
}

func (s *service) Create(ctx context.Context, req CreateFieldRequest) (*Field, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	fieldType := FieldType(req.Type)
	if !fieldType.IsValid() {
		return nil, apperror.Wrapf(ErrInvalidField, "type must be one of FUTSAL, MINI_SOCCER, BADMINTON, BASKETBALL, OTHER")
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, venues.ErrVenueNotFound
	}
	if _, err := s.venues.Exists(ctx, venueID); err != nil {
		return nil, err
	}

	prices, err := buildPrices(uuid.Nil, req.Prices)
	if err != nil {
		return nil, err
	}
	if err := validateDimensions(req.LengthMeter, req.WidthMeter); err != nil {
		return nil, err
	}
	images, err := buildImages(uuid.Nil, req.ImageURLs)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	field := &Field{
		VenueID:     venueID,
		Name:        name,
		Type:        fieldType,
		IsActive:    isActive,
		LengthMeter: req.LengthMeter,
		WidthMeter:  req.WidthMeter,
		Images:      images,
		Prices:      prices,
	}
	if err := s.repo.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Field created", "field_id", field.ID, "name", field.Name, "venue_id", venueID)
	return s.repo.GetByID(ctx, field.ID)
}

func (s *service) List(ctx context.Context, filters FieldFilters) ([]Field, *response.Meta, error) {
	filters.Page, filters.Limit = response.NormalizePage(filters.Page, filters.Limit, 10, 100)
	filters.Search = strings.TrimSpace(filters.Search)

	result, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list fields: %w", err)
	}

	return result.Fields, response.NewMeta(result.Total, filters.Page, filters.Limit), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Field, error) {
	var field Field
	err := s.cache.GetOrSet(ctx, constants.BuildFieldDetailKey(id.String()), constants.TTL_FIELD_DETAIL,
		func() (interface{}, error) {
			return s.load(ctx, id)
		}, &field)
	if err != nil {
		return nil, err
	}

	// booking counts move with every booking, so they are never served from cache
	if field.BookingCount, err = s.repo.CountBookings(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to count field bookings: %w", err)
	}
	return &field, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateFieldRequest) (*Field, error) {
	existing, err := s.load(ctx, id)
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
	if req.Type != nil {
		fieldType := FieldType(*req.Type)
		if !fieldType.IsValid() {
			return nil, apperror.Wrapf(ErrInvalidField, "type must be one of FUTSAL, MINI_SOCCER, BADMINTON, BASKETBALL, OTHER")
		}
		updates["type"] = fieldType
	}
	if req.VenueID != nil {
		venueID, err := uuid.Parse(*req.VenueID)
		if err != nil {
			return nil, venues.ErrVenueNotFound
		}
		if _, err := s.venues.Exists(ctx, venueID); err != nil {
			return nil, err
		}
		updates["venue_id"] = venueID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := validateDimensions(req.LengthMeter, req.WidthMeter); err != nil {
		return nil, err
	}
	if req.LengthMeter != nil {
		updates["length_meter"] = *req.LengthMeter
	}
	if req.WidthMeter != nil {
		updates["width_meter"] = *req.WidthMeter
	}

	var images *[]FieldImage
	if req.ImageURLs != nil {
		built, err := buildImages(id, *req.ImageURLs)
		if err != nil {
			return nil, err
		}
		images = &built
	}

	var prices *[]FieldPrice
	if req.Prices != nil {
		built, err := buildPrices(id, *req.Prices)
		if err != nil {
			return nil, err
		}
		prices = &built
	}

	if err := s.repo.Update(ctx, id, updates, images, prices); err != nil {
		return nil, fmt.Errorf("failed to update field: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Field updated", "field_id", id)
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	field, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count field bookings: %w", err)
	}
	if count > 0 {
		return apperror.Wrapf(ErrFieldInUse, "Field cannot be deleted while it has %d booking(s)", count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Field deleted", "field_id", id, "name", field.Name)
	return nil
}

// UploadImage stores a photo and appends it; the first photo becomes primary
func (s *service) UploadImage(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (*FieldImage, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	count, err := s.repo.CountImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count field images: %w", err)
	}
	if count >= maxImages {
		return nil, apperror.Wrapf(ErrInvalidField, "a field can have at most %d images", maxImages)
	}

	url, err := s.storage.Save(ctx, file, uploads.FolderFieldImages)
	if err != nil {
		return nil, err
	}

	image := &FieldImage{
		FieldID:   id,
		ImageURL:  url,
		IsPrimary: count == 0,
		Order:     int(count),
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.log.Warn("Failed to remove orphaned field image", "url", url, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save field image: %w", err)
	}

	s.invalidate(ctx)
	return image, nil
}

func (s *service) AddPrice(ctx context.Context, fieldID uuid.UUID, req PriceRequest) (*FieldPrice, error) {
	if _, err := s.load(ctx, fieldID); err != nil {
		return nil, err
	}

	candidate := priceFromRequest(fieldID, req)
	if err := pricing.ValidateTier(candidate.ToTier()); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListPrices(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field prices: %w", err)
	}
	if err := pricing.EnsureNoOverlap(toTiers(existing, uuid.Nil), candidate.ToTier()); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePrice(ctx, &candidate); err != nil {
		return nil, fmt.Errorf("failed to create field price: %w", err)
	}

	s.invalidate(ctx)
	return &candidate, nil
}

func (s *service) ListPrices(ctx context.Context, fieldID uuid.UUID) ([]FieldPrice, error) {
	if _, err := s.load(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.repo.ListPrices(ctx, fieldID)
}

func (s *service) UpdatePrice(ctx context.Context, fieldID, priceID uuid.UUID, req UpdatePriceRequest) (*FieldPrice, error) {
	price, err := s.loadPrice(ctx, fieldID, priceID)
	if err != nil {
		return nil, err
	}

	if req.DayType != nil {
		price.DayType = pricing.DayType(*req.DayType)
	}
	if req.StartHour != nil {
		price.StartHour = *req.StartHour
	}
	if req.EndHour != nil {
		price.EndHour = *req.EndHour
	}
	if req.Price != nil {
		price.Price = *req.Price
	}

	if err := pricing.ValidateTier(price.ToTier()); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListPrices(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field prices: %w", err)
	}
	if err := pricing.EnsureNoOverlap(toTiers(existing, priceID), price.ToTier()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePrice(ctx, price); err != nil {
		return nil, fmt.Errorf("failed to update field price: %w", err)
	}

	s.invalidate(ctx)
	return price, nil
}

func (s *service) RemovePrice(ctx context.Context, fieldID, priceID uuid.UUID) error {
	if _, err := s.loadPrice(ctx, fieldID, priceID); err != nil {
		return err
	}
	if err := s.repo.DeletePrice(ctx, priceID); err != nil {
		return fmt.Errorf("failed to delete field price: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Field, error) {
	field, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errFieldNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return field, nil
}

func (s *service) loadPrice(ctx context.Context, fieldID, priceID uuid.UUID) (*FieldPrice, error) {
	price, err := s.repo.GetPrice(ctx, priceID)
	if err != nil {
		if errors.Is(err, errPriceNotFound) {
			return nil, ErrPriceNotFound
		}
		return nil, err
	}
	if price.FieldID != fieldID {
		return nil, ErrPriceNotFound
	}
	return price, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return apperror.Wrapf(ErrFieldExists, "Field %q already exists", name)
	}
	if !errors.Is(err, errFieldNotFound) {
		return fmt.Errorf("failed to check field name: %w", err)
	}
	return nil
}

// invalidate drops field pages and venue pages, which embed their fields
func (s *service) invalidate(ctx context.Context) {
	for _, pattern := range []string{constants.PATTERN_INVALIDATE_FIELDS_ALL, constants.PATTERN_INVALIDATE_VENUES_ALL} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.log.WithError(err).Warn("failed to invalidate field cache", "pattern", pattern)
		}
	}
}

func validateDimensions(length, width *float64) error {
	if length != nil && *length <= 0 {
		return apperror.Wrapf(ErrInvalidField, "lengthMeter must be greater than 0")
	}
	if width != nil && *width <= 0 {
		return apperror.Wrapf(ErrInvalidField, "widthMeter must be greater than 0")
	}
	return nil
}

// buildImages keeps the given order; index 0 is primary
func buildImages(fieldID uuid.UUID, urls []string) ([]FieldImage, error) {
	if len(urls) > maxImages {
		return nil, apperror.Wrapf(ErrInvalidField, "a field can have at most %d images", maxImages)
	}

	images := make([]FieldImage, 0, len(urls))
	for i, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			return nil, apperror.Wrapf(ErrInvalidField, "imageUrls must not contain empty strings")
		}
		images = append(images, FieldImage{FieldID: fieldID, ImageURL: url, IsPrimary: i == 0, Order: i})
	}
	return images, nil
}

func buildPrices(fieldID uuid.UUID, reqs []PriceRequest) ([]FieldPrice, error) {
	prices := make([]FieldPrice, 0, len(reqs))
	tiers := make([]pricing.Tier, 0, len(reqs))
	for _, req := range reqs {
		p := priceFromRequest(fieldID, req)
		prices = append(prices, p)
		tiers = append(tiers, p.ToTier())
	}

	if err := pricing.ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return prices, nil
}

func priceFromRequest(fieldID uuid.UUID, req PriceRequest) FieldPrice {
	p := FieldPrice{FieldID: fieldID, DayType: pricing.DayType(req.DayType)}
	if req.StartHour != nil {
		p.StartHour = *req.StartHour
	}
	if req.EndHour != nil {
		p.EndHour = *req.EndHour
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	return p
}

func toTiers(prices []FieldPrice, exclude uuid.UUID) []pricing.Tier {
	tiers := make([]pricing.Tier, 0, len(prices))
	for _, p := range prices {
		if p.ID == exclude && exclude != uuid.Nil {
			continue
		}
		tiers = append(tiers, p.ToTier())
	}
	return tiers
}
