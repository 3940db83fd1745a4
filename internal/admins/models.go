package admins

import (
	"time"

	"fieldbook/internal/roles"
	"fieldbook/internal/venues"

	"github.com/google/uuid"
)

// Admin is a back-office account. VenueID scopes an admin to one venue.
type Admin struct {
	ID        uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Email     string        `json:"email" gorm:"uniqueIndex;not null"`
	Password  string        `json:"-" gorm:"not null"`
	Name      string        `json:"name" gorm:"not null"`
	RoleID    uuid.UUID     `json:"roleId" gorm:"type:uuid;not null;index"`
	Role      *roles.Role   `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	VenueID   *uuid.UUID    `json:"venueId" gorm:"type:uuid;index"`
	Venue     *venues.Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (a *Admin) roleName() string {
	if a.Role == nil {
		return ""
	}
	return a.Role.Name
}
