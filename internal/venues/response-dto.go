package venues

import (
	"time"

	"github.com/google/uuid"
)

type VenueListItem struct {
	Venue
	FieldCount int64 `json:"fieldCount"`
	AdminCount int64 `json:"adminCount"`
}

type VenueField struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type VenueAdmin struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	RoleName string    `json:"roleName"`
}

type VenueDetail struct {
	Venue
	Fields []VenueField `json:"fields"`
	Admins []VenueAdmin `json:"admins"`
}

type PaginatedVenues struct {
	Venues []VenueListItem
	Total  int64
}
