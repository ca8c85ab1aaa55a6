package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string { return e.Code + ": " + e.Message }

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Resp is the generic acknowledgement payload.
type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// computes total pages and navigation flags for a listing
func CalculatePaginationMeta(page, limit, total int) PaginationMeta {
	size := limit
	if size <= 0 {
		size = 1 // avoid division by zero
	}
	totalPages := (total + size - 1) / size
	return PaginationMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
