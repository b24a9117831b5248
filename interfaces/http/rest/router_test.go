package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"clubmanager/application/services"
	"clubmanager/domain/club"
	"clubmanager/infrastructure/persistence/memory"
	"clubmanager/infrastructure/persistence/schema"
	"clubmanager/infrastructure/persistence/transaction"
	"clubmanager/interfaces/http/rest/middleware"
	"clubmanager/pkg/auth"
	apperrors "clubmanager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// headerIdentity trusts the X-Test-User header
type headerIdentity struct{}

func (headerIdentity) Identify(r *http.Request) (auth.Identity, error) {
	id := r.Header.Get("X-Test-User")
	if id == "" {
		return auth.Identity{}, errors.New("no test user")
	}
	return auth.Identity{ID: id, Username: id, Email: id + "@example.com"}, nil
}

type recordedMetric struct {
	name string
	dims map[string]string
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls []recordedMetric
}

func (m *fakeMetrics) IncrementCounter(_ context.Context, name string, _ float64, dims map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedMetric{name: name, dims: dims})
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *fakeMetrics) {
	t.Helper()

	clubsSchema := schema.ClubsTable("clubs", "ClubsByVisibility", "ClubsByManager")
	membersSchema := schema.MembersTable("club-members", "MembersByUser")
	db := memory.NewDB()
	writer := transaction.NewWriter(
		memory.NewExecutor(db, schema.NewRegistry(clubsSchema, membersSchema)),
		transaction.DefaultItemLimit, transaction.DefaultConcurrency, zap.NewNop(),
	)
	service := services.NewMembershipService(
		memory.NewTable[club.Club, club.Key](db, clubsSchema),
		memory.NewTable[club.Member, club.MemberKey](db, membersSchema),
		writer, zap.NewNop(),
	)

	metrics := &fakeMetrics{}
	router := NewRouter(service, headerIdentity{}, apperrors.NewErrorHandler(zap.NewNop(), false), metrics, zap.NewNop(), opts)
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server, metrics
}

func call(t *testing.T, server *httptest.Server, method, path, userID, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	resp := call(t, server, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	resp := call(t, server, http.MethodGet, "/me", "", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClubLifecycle(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	// Manager creates a public club
	resp := call(t, server, http.MethodPost, "/clubs", "manager-1",
		`{"name":"Riverside Rovers","sport":"football","visibility":"public"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[club.Club](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "manager-1", created.ManagerID)
	assert.Equal(t, club.VisibilityPublic, created.Visibility)

	// It is listed publicly and under the manager
	resp = call(t, server, http.MethodGet, "/clubs?limit=10", "player-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[struct {
		Items  []club.Club `json:"items"`
		Cursor string      `json:"cursor"`
	}](t, resp)
	require.Len(t, page.Items, 1)
	assert.Empty(t, page.Cursor)

	resp = call(t, server, http.MethodGet, "/me/clubs", "manager-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]club.Club](t, resp), 1)

	// A player joins
	resp = call(t, server, http.MethodPost, "/clubs/"+created.ID+"/join", "player-1", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	joined := decode[club.Member](t, resp)
	assert.Equal(t, club.RolePlayer, joined.Role)
	assert.Equal(t, "player-1", joined.User.ID)

	resp = call(t, server, http.MethodGet, "/clubs/"+created.ID+"/members/player-1", "manager-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[club.Member](t, resp).Club.ID)

	resp = call(t, server, http.MethodGet, "/me/memberships", "player-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]club.Member](t, resp), 1)

	// Only the manager may delete
	resp = call(t, server, http.MethodDelete, "/clubs/"+created.ID, "player-1", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, server, http.MethodDelete, "/clubs/"+created.ID, "manager-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The club and its members are gone
	resp = call(t, server, http.MethodGet, "/clubs/"+created.ID+"/members/player-1", "manager-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = call(t, server, http.MethodPost, "/clubs/"+created.ID+"/join", "player-2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateClub_Invalid(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"unknown field", `{"name":"Valid Name","sport":"golf","owner":"x"}`},
		{"name too short", `{"name":"ab","sport":"golf"}`},
		{"name with symbols", `{"name":"Bad!Name","sport":"golf"}`},
		{"missing sport", `{"name":"Valid Name"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, server, http.MethodPost, "/clubs", "manager-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestDeleteClub_Missing(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	resp := call(t, server, http.MethodDelete, "/clubs/does-not-exist", "manager-1", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPublicClubs_InvalidLimit(t *testing.T) {
	server, _ := newTestServer(t, Options{})

	resp := call(t, server, http.MethodGet, "/clubs?limit=-1", "player-1", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	server, _ := newTestServer(t, Options{RequestsPerMinute: 2})

	assert.Equal(t, http.StatusOK, call(t, server, http.MethodGet, "/me", "u1", "").StatusCode)
	assert.Equal(t, http.StatusOK, call(t, server, http.MethodGet, "/me", "u1", "").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, call(t, server, http.MethodGet, "/me", "u1", "").StatusCode)
}

func TestRateLimit_ForwardedForDoesNotResetIPBucket(t *testing.T) {
	server, _ := newTestServer(t, Options{RequestsPerMinute: 2})

	statuses := make([]int, 0, 3)
	for i, user := range []string{"u1", "u2", "u3"} {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/me", nil)
		require.NoError(t, err)
		req.Header.Set("X-Test-User", user)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRequestMetrics(t *testing.T) {
	server, metrics := newTestServer(t, Options{})

	call(t, server, http.MethodGet, "/me", "u1", "")

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	require.Len(t, metrics.calls, 1)
	assert.Equal(t, middleware.MetricHTTPRequests, metrics.calls[0].name)
	dims := metrics.calls[0].dims
	assert.Equal(t, "GET", dims["Method"])
	assert.Equal(t, "2xx", dims["Status"])
	assert.True(t, strings.HasPrefix(dims["Route"], "/me"), dims["Route"])
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t, Options{MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})})

	resp := call(t, server, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
