package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "clubmanager/pkg/errors"
)

// maxBodyBytes bounds request bodies accepted by ParseJSONBody
const maxBodyBytes int64 = 1 << 20

// RespondJSON writes data as the JSON response body
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondNoContent writes an empty 204 response
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ParseJSONBody decodes the request body into v, rejecting unknown fields.
// Malformed input is reported as a validation error.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.NewValidationError("request body is required")
		case errors.As(err, &maxErr):
			return apperrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		default:
			return apperrors.NewValidationError("invalid request body").WithCause(err)
		}
	}
	return nil
}
