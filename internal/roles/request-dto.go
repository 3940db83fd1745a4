package roles

type CreateRoleRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}
