package mobilefields

import (
	"fieldbook/internal/fields"

	"github.com/google/uuid"
)

type VenueRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Size struct {
	LengthMeter *float64 `json:"lengthMeter"`
	WidthMeter  *float64 `json:"widthMeter"`
}

// FieldCard is one field as the mobile app lists it for a slot
type FieldCard struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Type         fields.FieldType `json:"type"`
	Venue        *VenueRef        `json:"venue"`
	ImageURL     *string          `json:"imageUrl"`
	Size         Size             `json:"size"`
	PricePerHour *int64           `json:"pricePerHour"`
	IsAvailable  bool             `json:"isAvailable"`
}

type ImageItem struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	IsPrimary bool      `json:"isPrimary"`
	Order     int       `json:"order"`
}

type FieldDetail struct {
	FieldCard
	Images []ImageItem `json:"images"`
}
