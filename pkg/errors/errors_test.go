package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NewNotFoundError("club"), http.StatusNotFound},
		{"rate limited", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFoundError("club")), http.StatusNotFound},
		{"validation", NewValidationError("name is required"), http.StatusBadRequest},
		{"condition failed", NewConditionFailedError(nil), http.StatusConflict},
		{"atomic write without condition failure", &AtomicWriteError{Reasons: []ItemFailure{{Reason: ReasonUnknown}}}, http.StatusInternalServerError},
		{"database", NewDatabaseError("put", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}

func TestErrorHandler_DoesNotLeakInternalDetail(t *testing.T) {
	// Arrange
	handler := NewErrorHandler(zap.NewNop(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/clubs", nil)

	// Act
	handler.Handle(rec, req, NewDatabaseError("query", fmt.Errorf("table clubs-prod is throttled")))

	// Assert
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, genericErrorMessage, body.Message)
	assert.NotContains(t, rec.Body.String(), "clubs-prod")
}

func TestErrorHandler_NotFound(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/clubs/abc/join", nil)

	handler.Handle(rec, req, NewNotFoundError("club"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "club not found")
}

func TestAtomicWriteError(t *testing.T) {
	err := &AtomicWriteError{Reasons: []ItemFailure{
		{OperationIndex: 0, Reason: ReasonNone},
		{OperationIndex: 1, Reason: ReasonConditionalCheckFailed},
	}}

	assert.True(t, IsAtomicWriteFailed(fmt.Errorf("create club: %w", err)))
	assert.True(t, IsConditionFailed(err))
	assert.Len(t, err.Failed(), 1)
	assert.Equal(t, "atomic write failed: #1=ConditionalCheckFailed", err.Error())
}

func TestBatchFailedError_MatchesDeliveryFailed(t *testing.T) {
	err := fmt.Errorf("handle batch: %w", &BatchFailedError{FailedCount: 2, Total: 5})

	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.True(t, IsBatchFailed(err))
	assert.False(t, IsPublishFailed(err))
}
