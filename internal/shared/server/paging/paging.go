package paging

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/apperr"
)

const MaxLimit = 100

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery reads page and limit from the query string. Non-integers and
// values outside page >= 1, 1 <= limit <= MaxLimit are rejected.
func FromQuery(c *gin.Context, defaultLimit int) (Page, error) {
	p := Page{Page: 1, Limit: defaultLimit}
	if v := c.Query("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return Page{}, apperr.Unprocessable("page must be an integer >= 1")
		}
		p.Page = parsed
	}
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > MaxLimit {
			return Page{}, apperr.Unprocessable(fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit))
		}
		p.Limit = parsed
	}
	return p, nil
}

// OptionalInt64 parses an optional integer query parameter.
func OptionalInt64(c *gin.Context, name string) (*int64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, apperr.Unprocessable(name + " must be an integer")
	}
	return &parsed, nil
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	parsed, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || parsed < 1 {
		return 0, apperr.Unprocessable(name + " must be a positive integer")
	}
	return parsed, nil
}
