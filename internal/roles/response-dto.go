package roles

import (
	"time"

	"github.com/google/uuid"
)

type RoleListItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	AdminCount  int64     `json:"adminCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RoleAdmin struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type RoleDetail struct {
	Role
	Admins []RoleAdmin `json:"admins"`
}
