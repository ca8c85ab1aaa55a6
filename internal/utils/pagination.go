package utils

import (
	"errors"
	"net/http"
	"strconv"
)

var (
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer between 1 and 100")
)

// ParsePagination reads ?page= and ?limit= with defaults 1 and defaultLimit.
func ParsePagination(r *http.Request, defaultLimit int) (page, limit int, err error) {
	page, limit = 1, defaultLimit

	if s := r.URL.Query().Get("page"); s != "" {
		p, convErr := strconv.Atoi(s)
		if convErr != nil || p <= 0 {
			return 0, 0, ErrInvalidPage
		}
		page = p
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		l, convErr := strconv.Atoi(s)
		if convErr != nil || l <= 0 || l > 100 {
			return 0, 0, ErrInvalidLimit
		}
		limit = l
	}
	return page, limit, nil
}
