package fields

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"fieldbook/internal/pricing"
	"fieldbook/internal/venues"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	fields   map[uuid.UUID]*Field
	prices   map[uuid.UUID]*FieldPrice
	bookings map[uuid.UUID]int64

	addImageErr error
}

func newMemRepo() *memRepo {
	return &memRepo{fields: map[uuid.UUID]*Field{}, prices: map[uuid.UUID]*FieldPrice{}, bookings: map[uuid.UUID]int64{}}
}

func (m *memRepo) Create(_ context.Context, f *Field) error {
	f.ID = uuid.New()
	for i := range f.Prices {
		f.Prices[i].ID = uuid.New()
		f.Prices[i].FieldID = f.ID
		p := f.Prices[i]
		m.prices[p.ID] = &p
	}
	for i := range f.Images {
		f.Images[i].FieldID = f.ID
	}
	m.fields[f.ID] = f
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Field, error) {
	f, ok := m.fields[id]
	if !ok {
		return nil, errFieldNotFound
	}
	cp := *f
	cp.BookingCount = m.bookings[id]
	return &cp, nil
}

func (m *memRepo) GetByName(_ context.Context, name string) (*Field, error) {
	for _, f := range m.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, errFieldNotFound
}

func (m *memRepo) List(context.Context, FieldFilters) (*PaginatedFields, error) {
	return &PaginatedFields{}, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}, images *[]FieldImage, prices *[]FieldPrice) error {
	f := m.fields[id]
	if name, ok := updates["name"].(string); ok {
		f.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		f.IsActive = active
	}
	if images != nil {
		f.Images = *images
	}
	if prices != nil {
		f.Prices = *prices
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.fields, id)
	return nil
}

func (m *memRepo) CountBookings(_ context.Context, id uuid.UUID) (int64, error) {
	return m.bookings[id], nil
}

func (m *memRepo) AddImage(_ context.Context, img *FieldImage) error {
	if m.addImageErr != nil {
		return m.addImageErr
	}
	m.fields[img.FieldID].Images = append(m.fields[img.FieldID].Images, *img)
	return nil
}

func (m *memRepo) CountImages(_ context.Context, id uuid.UUID) (int64, error) {
	return int64(len(m.fields[id].Images)), nil
}

func (m *memRepo) ListPrices(_ context.Context, fieldID uuid.UUID) ([]FieldPrice, error) {
	var out []FieldPrice
	for _, p := range m.prices {
		if p.FieldID == fieldID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) GetPrice(_ context.Context, id uuid.UUID) (*FieldPrice, error) {
	if p, ok := m.prices[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errPriceNotFound
}

func (m *memRepo) CreatePrice(_ context.Context, p *FieldPrice) error {
	p.ID = uuid.New()
	cp := *p
	m.prices[p.ID] = &cp
	return nil
}

func (m *memRepo) UpdatePrice(_ context.Context, p *FieldPrice) error {
	cp := *p
	m.prices[p.ID] = &cp
	return nil
}

func (m *memRepo) DeletePrice(_ context.Context, id uuid.UUID) error {
	delete(m.prices, id)
	return nil
}

type venueTable map[uuid.UUID]*venues.Venue

func (t venueTable) Exists(_ context.Context, id uuid.UUID) (*venues.Venue, error) {
	if v, ok := t[id]; ok {
		return v, nil
	}
	return nil, venues.ErrVenueNotFound
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

func tier(day string, start, end int, price int64) PriceRequest {
	return PriceRequest{DayType: day, StartHour: intp(start), EndHour: intp(end), Price: int64p(price)}
}

func newTestService() (Service, *memRepo, uuid.UUID) {
	venueID := uuid.New()
	repo := newMemRepo()
	svc := NewService(repo, venueTable{venueID: {ID: venueID, Name: "Arena"}}, cache.NewNoop(), nil, logger.NewNop())
	return svc, repo, venueID
}

func TestCreateField(t *testing.T) {
	svc, _, venueID := newTestService()
	ctx := context.Background()

	field, err := svc.Create(ctx, CreateFieldRequest{
		VenueID:   venueID.String(),
		Name:      "Court A",
		Type:      string(TypeFutsal),
		ImageURLs: []string{"https://img/1.jpg", "https://img/2.jpg"},
		Prices:    []PriceRequest{tier("WEEKDAY", 8, 17, 50000), tier("WEEKDAY", 17, 23, 80000)},
	})
	require.NoError(t, err)
	assert.True(t, field.IsActive)
	require.Len(t, field.Images, 2)
	assert.True(t, field.Images[0].IsPrimary)
	assert.False(t, field.Images[1].IsPrimary)
	assert.Equal(t, "https://img/1.jpg", *field.PrimaryImage())
	assert.Len(t, field.Tiers(), 2)

	_, err = svc.Create(ctx, CreateFieldRequest{VenueID: venueID.String(), Name: "Court A", Type: "FUTSAL"})
	assert.ErrorIs(t, err, ErrFieldExists)
}

func TestCreateFieldValidation(t *testing.T) {
	svc, _, venueID := newTestService()
	ctx := context.Background()
	zero := 0.0

	tests := []struct {
		name string
		req  CreateFieldRequest
		want error
	}{
		{"unknown type", CreateFieldRequest{VenueID: venueID.String(), Name: "X", Type: "TENNIS"}, ErrInvalidField},
		{"missing venue", CreateFieldRequest{VenueID: uuid.NewString(), Name: "X", Type: "FUTSAL"}, venues.ErrVenueNotFound},
		{"overlapping tiers", CreateFieldRequest{VenueID: venueID.String(), Name: "X", Type: "FUTSAL",
			Prices: []PriceRequest{tier("WEEKEND", 8, 12, 1), tier("WEEKEND", 11, 14, 1)}}, pricing.ErrTierOverlap},
		{"inverted tier", CreateFieldRequest{VenueID: venueID.String(), Name: "X", Type: "FUTSAL",
			Prices: []PriceRequest{tier("WEEKDAY", 12, 12, 1)}}, pricing.ErrInvalidTier},
		{"zero length", CreateFieldRequest{VenueID: venueID.String(), Name: "X", Type: "FUTSAL", LengthMeter: &zero}, ErrInvalidField},
		{"blank image", CreateFieldRequest{VenueID: venueID.String(), Name: "X", Type: "FUTSAL", ImageURLs: []string{" "}}, ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPriceSubResource(t *testing.T) {
	svc, _, venueID := newTestService()
	ctx := context.Background()

	field, err := svc.Create(ctx, CreateFieldRequest{
		VenueID: venueID.String(), Name: "Court B", Type: "FUTSAL",
		Prices: []PriceRequest{tier("WEEKDAY", 8, 12, 50000)},
	})
	require.NoError(t, err)

	_, err = svc.AddPrice(ctx, field.ID, tier("WEEKDAY", 11, 13, 60000))
	assert.ErrorIs(t, err, pricing.ErrTierOverlap)

	added, err := svc.AddPrice(ctx, field.ID, tier("WEEKDAY", 12, 16, 60000))
	require.NoError(t, err, "adjacent tiers do not overlap")

	// moving a tier onto its own range is allowed
	updated, err := svc.UpdatePrice(ctx, field.ID, added.ID, UpdatePriceRequest{Price: int64p(65000)})
	require.NoError(t, err)
	assert.Equal(t, int64(65000), updated.Price)

	_, err = svc.UpdatePrice(ctx, field.ID, added.ID, UpdatePriceRequest{StartHour: intp(10)})
	assert.ErrorIs(t, err, pricing.ErrTierOverlap)

	_, err = svc.UpdatePrice(ctx, uuid.New(), added.ID, UpdatePriceRequest{Price: int64p(1)})
	assert.ErrorIs(t, err, ErrPriceNotFound)

	require.NoError(t, svc.RemovePrice(ctx, field.ID, added.ID))
	prices, err := svc.ListPrices(ctx, field.ID)
	require.NoError(t, err)
	assert.Len(t, prices, 1)
}

func TestDeleteRefusedWithBookings(t *testing.T) {
	svc, repo, venueID := newTestService()
	ctx := context.Background()

	field, err := svc.Create(ctx, CreateFieldRequest{VenueID: venueID.String(), Name: "Court C", Type: "OTHER"})
	require.NoError(t, err)

	repo.bookings[field.ID] = 2
	err = svc.Delete(ctx, field.ID)
	require.ErrorIs(t, err, ErrFieldInUse)
	assert.Contains(t, err.Error(), "2 booking(s)")

	repo.bookings[field.ID] = 0
	require.NoError(t, svc.Delete(ctx, field.ID))
	_, err = svc.Get(ctx, field.ID)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestUpdateReplacesImages(t *testing.T) {
	svc, _, venueID := newTestService()
	ctx := context.Background()

	field, err := svc.Create(ctx, CreateFieldRequest{VenueID: venueID.String(), Name: "Court D", Type: "FUTSAL",
		ImageURLs: []string{"a", "b"}})
	require.NoError(t, err)

	urls := []string{"c"}
	inactive := false
	updated, err := svc.Update(ctx, field.ID, UpdateFieldRequest{ImageURLs: &urls, IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "c", updated.Images[0].ImageURL)
	assert.True(t, updated.Images[0].IsPrimary)
	assert.False(t, updated.IsActive)
}

type recordingStorage struct{ saved, deleted []string }

func (s *recordingStorage) Save(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	url := "https://files.test/" + folder + "/" + fh.Filename
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *recordingStorage) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

func TestUploadImage(t *testing.T) {
	venueID := uuid.New()
	repo := newMemRepo()
	storage := &recordingStorage{}
	svc := NewService(repo, venueTable{venueID: {ID: venueID, Name: "Arena"}}, cache.NewNoop(), storage, logger.NewNop())
	ctx := context.Background()

	field, err := svc.Create(ctx, CreateFieldRequest{VenueID: venueID.String(), Name: "Court B", Type: string(TypeFutsal)})
	require.NoError(t, err)

	img, err := svc.UploadImage(ctx, field.ID, &multipart.FileHeader{Filename: "pitch.png"})
	require.NoError(t, err)
	assert.True(t, img.IsPrimary)
	assert.Empty(t, storage.deleted)

	repo.addImageErr = errors.New("db down")
	_, err = svc.UploadImage(ctx, field.ID, &multipart.FileHeader{Filename: "stands.png"})
	require.Error(t, err)
	assert.Equal(t, []string{"https://files.test/field-images/stands.png"}, storage.deleted)
}
