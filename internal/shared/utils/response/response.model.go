package response

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data"`             // Payload, null when absent
	Meta       *Meta       `json:"meta,omitempty"`   // Pagination for list endpoints
	Slot       interface{} `json:"slot,omitempty"`   // Resolved time window for availability reads
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

// Meta describes a page of a list result
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta builds pagination metadata
func NewMeta(total int64, page, limit int) *Meta {
	return &Meta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: CalculateTotalPages(total, limit),
	}
}

// CalculateTotalPages rounds total/limit up
func CalculateTotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NormalizePage applies list defaults: page >= 1, 1 <= limit <= maxLimit
func NormalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Offset returns the row offset for a normalized page
func Offset(page, limit int) int {
	return (page - 1) * limit
}
