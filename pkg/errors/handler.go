package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const genericErrorMessage = "An internal error occurred"

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler translates errors into HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response.
// Server-side failures never expose their message unless debug is enabled.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	status, response := h.classify(err)
	response.RequestID = requestID

	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", requestID),
	}
	if status >= 500 {
		h.logger.Error("Request failed", fields...)
		if h.debug {
			response.Message = err.Error()
		}
	} else {
		h.logger.Warn("Request rejected", fields...)
	}

	h.sendJSON(w, status, response)
}

// StatusFor returns the HTTP status an error maps to.
func StatusFor(err error) int {
	if awErr, ok := AsAtomicWriteError(err); ok {
		if awErr.HasReason(ReasonConditionalCheckFailed) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	}
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func (h *ErrorHandler) classify(err error) (int, ErrorResponse) {
	status := StatusFor(err)
	response := ErrorResponse{
		Error:   true,
		Type:    string(ErrorTypeInternal),
		Message: genericErrorMessage,
	}

	if awErr, ok := AsAtomicWriteError(err); ok && status == http.StatusConflict {
		response.Type = string(ErrorTypeConflict)
		response.Message = "resource already exists or was modified concurrently"
		response.Details = map[string]interface{}{"reasons": awErr.Failed()}
		return status, response
	}

	if appErr := GetAppError(err); appErr != nil && status < 500 {
		response.Type = string(appErr.Type)
		response.Message = appErr.Message
		response.Code = appErr.Code
		response.Details = appErr.Details
	}
	return status, response
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware returns an HTTP middleware that turns panics into 500 responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
