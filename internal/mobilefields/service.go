// Package mobilefields serves the customer app's field catalog: every
// active field with its availability and hourly price for one slot.
package mobilefields

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fieldbook/internal/fields"
	"fieldbook/internal/pricing"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/internal/slots"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, query ListQuery) ([]FieldCard, slots.Slot, *response.Meta, error)
	// Detail returns a nil detail when the field is missing or inactive
	Detail(ctx context.Context, id uuid.UUID, query SlotQuery) (*FieldDetail, slots.Slot, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location, log *logger.Logger) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, log: log.WithComponent("mobile-fields"), now: time.Now}
}

func (s *service) resolve(query SlotQuery) (slots.Slot, error) {
	in, err := query.Input(s.loc)
	if err != nil {
		return slots.Slot{}, err
	}
	return slots.Resolve(in, s.now(), s.loc)
}

func (s *service) List(ctx context.Context, query ListQuery) ([]FieldCard, slots.Slot, *response.Meta, error) {
	slot, err := s.resolve(query.SlotQuery)
	if err != nil {
		return nil, slots.Slot{}, nil, err
	}

	query.Page, query.Limit = response.NormalizePage(query.Page, query.Limit, 20, 100)
	query.Search = strings.TrimSpace(query.Search)

	rows, total, err := s.repo.ListActive(ctx, query)
	if err != nil {
		return nil, slots.Slot{}, nil, fmt.Errorf("failed to list fields: %w", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	busy, err := s.repo.BusyFieldIDs(ctx, ids, slot.Start, slot.End)
	if err != nil {
		return nil, slots.Slot{}, nil, fmt.Errorf("failed to check availability: %w", err)
	}

	cards := make([]FieldCard, 0, len(rows))
	for i := range rows {
		card := s.card(&rows[i], slot, !busy[rows[i].ID])
		if query.OnlyAvailable && !card.IsAvailable {
			continue
		}
		cards = append(cards, card)
	}
	sortCards(cards)

	return cards, slot, response.NewMeta(total, query.Page, query.Limit), nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID, query SlotQuery) (*FieldDetail, slots.Slot, error) {
	slot, err := s.resolve(query)
	if err != nil {
		return nil, slots.Slot{}, err
	}

	field, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, slot, nil
		}
		return nil, slots.Slot{}, fmt.Errorf("failed to load field: %w", err)
	}
	if !field.IsActive {
		return nil, slot, nil
	}

	busy, err := s.repo.BusyFieldIDs(ctx, []uuid.UUID{id}, slot.Start, slot.End)
	if err != nil {
		return nil, slots.Slot{}, fmt.Errorf("failed to check availability: %w", err)
	}

	detail := &FieldDetail{
		FieldCard: s.card(field, slot, !busy[id]),
		Images:    make([]ImageItem, 0, len(field.Images)),
	}
	for _, img := range field.Images {
		detail.Images = append(detail.Images, ImageItem{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			Order:     img.Order,
		})
	}
	return detail, slot, nil
}

func (s *service) card(f *fields.Field, slot slots.Slot, available bool) FieldCard {
	card := FieldCard{
		ID:          f.ID,
		Name:        f.Name,
		Type:        f.Type,
		ImageURL:    f.PrimaryImage(),
		Size:        Size{LengthMeter: f.LengthMeter, WidthMeter: f.WidthMeter},
		IsAvailable: available,
	}
	if f.Venue != nil {
		card.Venue = &VenueRef{ID: f.Venue.ID, Name: f.Venue.Name}
	}
	// priced by the tier at slot start only
	if tier, ok := pricing.FindTier(f.Tiers(), slot.Start, s.loc); ok {
		price := tier.Price
		card.PricePerHour = &price
	}
	return card
}

// sortCards puts available fields first, then orders by venue and field name
func sortCards(cards []FieldCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if a.IsAvailable != b.IsAvailable {
			return a.IsAvailable
		}
		if av, bv := venueName(a), venueName(b); av != bv {
			return strings.ToLower(av) < strings.ToLower(bv)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func venueName(c FieldCard) string {
	if c.Venue == nil {
		return ""
	}
	return c.Venue.Name
}
