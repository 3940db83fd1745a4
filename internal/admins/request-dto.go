package admins

type RegisterAdminRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	RoleID   string  `json:"roleId" validate:"required,uuid"`
	VenueID  *string `json:"venueId,omitempty" validate:"omitempty,uuid"`
}

type LoginAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
