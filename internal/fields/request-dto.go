package fields

type PriceRequest struct {
	DayType   string `json:"dayType" binding:"required,oneof=WEEKDAY WEEKEND"`
	StartHour *int   `json:"startHour" binding:"required,min=0,max=23"`
	EndHour   *int   `json:"endHour" binding:"required,min=1,max=24"`
	Price     *int64 `json:"price" binding:"required,min=0"`
}

type UpdatePriceRequest struct {
	DayType   *string `json:"dayType" binding:"omitempty,oneof=WEEKDAY WEEKEND"`
	StartHour *int    `json:"startHour" binding:"omitempty,min=0,max=23"`
	EndHour   *int    `json:"endHour" binding:"omitempty,min=1,max=24"`
	Price     *int64  `json:"price" binding:"omitempty,min=0"`
}

type CreateFieldRequest struct {
	VenueID     string         `json:"venueId" binding:"required,uuid"`
	Name        string         `json:"name" binding:"required,max=100"`
	Type        string         `json:"type" binding:"required"`
	IsActive    *bool          `json:"isActive"`
	LengthMeter *float64       `json:"lengthMeter" binding:"omitempty,max=1000"`
	WidthMeter  *float64       `json:"widthMeter" binding:"omitempty,max=1000"`
	ImageURLs   []string       `json:"imageUrls" binding:"omitempty,max=10,dive,max=2048"`
	Prices      []PriceRequest `json:"prices" binding:"omitempty,max=50,dive"`
}

// UpdateFieldRequest replaces images/prices wholesale when the key is present
type UpdateFieldRequest struct {
	VenueID     *string         `json:"venueId" binding:"omitempty,uuid"`
	Name        *string         `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *string         `json:"type"`
	IsActive    *bool           `json:"isActive"`
	LengthMeter *float64        `json:"lengthMeter" binding:"omitempty,max=1000"`
	WidthMeter  *float64        `json:"widthMeter" binding:"omitempty,max=1000"`
	ImageURLs   *[]string       `json:"imageUrls" binding:"omitempty,max=10,dive,max=2048"`
	Prices      *[]PriceRequest `json:"prices" binding:"omitempty,max=50,dive"`
}

type FieldFilters struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	VenueID  string `form:"venueId"`
	Type     string `form:"type"`
	IsActive *bool  `form:"isActive"`
}
