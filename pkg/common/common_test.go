package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "clubmanager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPageOptions(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		limit   int32
		cursor  string
		wantErr bool
	}{
		{name: "defaults", query: "", limit: DefaultPageSize},
		{name: "explicit", query: "?limit=5&cursor=abc", limit: 5, cursor: "abc"},
		{name: "clamped", query: "?limit=1000", limit: MaxPageSize},
		{name: "zero", query: "?limit=0", wantErr: true},
		{name: "not a number", query: "?limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/clubs"+tt.query, nil)

			opts, err := ExtractPageOptions(req)

			if tt.wantErr {
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.limit, opts.Limit)
			assert.Equal(t, tt.cursor, opts.Cursor)
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/clubs", strings.NewReader(`{"name":"Ajax"}`))
	require.NoError(t, ParseJSONBody(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "Ajax", dst.Name)

	for _, body := range []string{"", `{"name":`, `{"unknown":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/clubs", strings.NewReader(body))
		err := ParseJSONBody(httptest.NewRecorder(), req, &dst)
		assert.True(t, apperrors.IsValidation(err), "body %q", body)
	}
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusCreated, map[string]string{"id": "c-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"c-1"}`, rec.Body.String())
}
