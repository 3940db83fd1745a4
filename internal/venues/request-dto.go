package venues

type CreateVenueRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Address     string   `json:"address" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type UpdateVenueRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Address     *string  `json:"address" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type VenueFilters struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}
