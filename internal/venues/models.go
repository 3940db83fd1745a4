package venues

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Address     string    `json:"address" gorm:"not null;size:255"`
	Description *string   `json:"description" gorm:"size:500"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Ref is the compact venue block embedded in field and booking payloads
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
