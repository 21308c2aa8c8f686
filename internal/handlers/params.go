package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rangeParams are the query parameters shared by the timeline and ranking
// endpoints
type rangeParams struct {
	Days  int `validate:"min=1,max=365"`
	Limit int `validate:"min=1,max=100"`
}

const (
	defaultDays  = 30
	defaultLimit = 10
)

// parseRangeParams reads days and limit from the query string, applying
// defaults and bounds
func parseRangeParams(r *http.Request) (rangeParams, error) {
	p := rangeParams{Days: defaultDays, Limit: defaultLimit}

	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return p, err
		}
		p.Days = days
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return p, err
		}
		p.Limit = limit
	}

	return p, validate.Struct(p)
}
