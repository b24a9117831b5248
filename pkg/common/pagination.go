package common

import (
	"net/http"
	"strconv"

	"clubmanager/application/ports"
	apperrors "clubmanager/pkg/errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ExtractPageOptions reads the limit and cursor query parameters.
// Limits above MaxPageSize are clamped.
func ExtractPageOptions(r *http.Request) (ports.PageOptions, error) {
	opts := ports.PageOptions{
		Limit:  DefaultPageSize,
		Cursor: r.URL.Query().Get("cursor"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return ports.PageOptions{}, apperrors.NewValidationError("limit must be a positive integer")
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
		opts.Limit = int32(limit)
	}

	return opts, nil
}
