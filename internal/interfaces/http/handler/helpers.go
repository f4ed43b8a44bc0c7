package handler

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
)

// listRequestToFilter converts the common query parameters into a domain
// filter, falling back to defaults for anything left out
func listRequestToFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}

// parseDateParam parses an optional YYYY-MM-DD query parameter
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
