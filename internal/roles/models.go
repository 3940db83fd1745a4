package roles

import (
	"time"

	"github.com/google/uuid"
)

// Role is an admin role; authorization checks its Name
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:50"`
	Description *string   `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Role) TableName() string {
	return "admin_roles"
}
