package fields

import (
	"time"

	"fieldbook/internal/pricing"
	"fieldbook/internal/venues"

	"github.com/google/uuid"
)

type FieldType string

const (
	TypeFutsal     FieldType = "FUTSAL"
	TypeMiniSoccer FieldType = "MINI_SOCCER"
	TypeBadminton  FieldType = "BADMINTON"
	TypeBasketball FieldType = "BASKETBALL"
	TypeOther      FieldType = "OTHER"
)

func (t FieldType) IsValid() bool {
	switch t {
	case TypeFutsal, TypeMiniSoccer, TypeBadminton, TypeBasketball, TypeOther:
		return true
	}
	return false
}

type Field struct {
	ID          uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	VenueID     uuid.UUID      `json:"venueId" gorm:"type:uuid;not null;index"`
	Venue       *venues.Venue  `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Type        FieldType      `json:"type" gorm:"type:varchar(20);not null"`
	IsActive    bool           `json:"isActive" gorm:"not null;index"`
	LengthMeter *float64       `json:"lengthMeter"`
	WidthMeter  *float64       `json:"widthMeter"`
	Images      []FieldImage   `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	Prices      []FieldPrice   `json:"prices" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	BookingCount int64 `json:"bookingCount" gorm:"-"`
}

// Tiers converts the stored prices for the calculator
func (f *Field) Tiers() []pricing.Tier {
	tiers := make([]pricing.Tier, 0, len(f.Prices))
	for _, p := range f.Prices {
		tiers = append(tiers, p.ToTier())
	}
	return tiers
}

// PrimaryImage returns the first image in display order, if any
func (f *Field) PrimaryImage() *string {
	if len(f.Images) == 0 {
		return nil
	}
	url := f.Images[0].ImageURL
	return &url
}

type FieldImage struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FieldID   uuid.UUID `json:"fieldId" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"imageUrl" gorm:"size:2048;not null"`
	IsPrimary bool      `json:"isPrimary" gorm:"not null"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type FieldPrice struct {
	ID        uuid.UUID       `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FieldID   uuid.UUID       `json:"fieldId" gorm:"type:uuid;not null;index:idx_field_prices_lookup"`
	DayType   pricing.DayType `json:"dayType" gorm:"type:varchar(10);not null;index:idx_field_prices_lookup"`
	StartHour int             `json:"startHour" gorm:"not null"`
	EndHour   int             `json:"endHour" gorm:"not null"`
	Price     int64           `json:"price" gorm:"not null"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (p FieldPrice) ToTier() pricing.Tier {
	return pricing.Tier{DayType: p.DayType, StartHour: p.StartHour, EndHour: p.EndHour, Price: p.Price}
}

// imageOrder is the display order for images everywhere
const imageOrder = "is_primary DESC, sort_order ASC, created_at ASC"

// priceOrder is the display order for price tiers
const priceOrder = "day_type ASC, start_hour ASC"
