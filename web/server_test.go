/* server_test.go
 * Contains the shared test fixtures and unit tests for routes.go and respond.go
 * Authors: Zachary Bower
 */

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"hackathon-engine/api/api"
	"hackathon-engine/api/shared"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)

func newTestServer(t *testing.T) (http.Handler, *api.MockStore) {
	t.Helper()
	ms := api.NewMockStore()
	apiPtr, err := api.NewAPI(ms, shared.NewAdminSet("admin"),
		api.WithClock(func() time.Time { return testNow }),
		api.WithIDGenerator(func() string { return "team-1" }),
	)
	require.NoError(t, err)
	return NewRouter(NewServer(apiPtr, nil), []string{"*"}), ms
}

// newRequest builds a request as principal, with no principal header when empty
func newRequest(t *testing.T, method string, path string, principal string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if principal != "" {
		req.Header.Set(principalHeader, principal)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// do sends a request as principal and returns the recorded response
func do(t *testing.T, h http.Handler, method string, path string, principal string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(h, newRequest(t, method, path, principal, body))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sampleTeam(id string, status shared.Status, members ...string) shared.Team {
	team := shared.Team{ID: id, Name: "Team " + id, LeaderID: members[0], Status: status, CreatedAt: testNow}
	for _, m := range members {
		team.Members = append(team.Members, shared.Member{PrincipalID: m, Email: m + "@x.com"})
	}
	return team
}

// region routes tests

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "", nil).Code)
}

func TestMetrics(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePrincipal(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decode[errorResponse](t, rec).Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/teams", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", principalHeader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// endregion

// region respond tests

func TestStatusOf(t *testing.T) {
	tests := map[shared.Code]int{
		shared.CodeValidation:        http.StatusBadRequest,
		shared.CodeNotFound:          http.StatusNotFound,
		shared.CodeConflict:          http.StatusConflict,
		shared.CodePermission:        http.StatusForbidden,
		shared.CodeInvalidTransition: http.StatusConflict,
		shared.CodeTimeWindow:        http.StatusUnprocessableEntity,
		shared.CodeUnavailable:       http.StatusServiceUnavailable,
	}
	for code, want := range tests {
		assert.Equal(t, want, statusOf(code), code)
	}
}

// TestWriteError_HidesCollaboratorCause tests that store failures are not leaked to clients
func TestWriteError_HidesCollaboratorCause(t *testing.T) {
	h, ms := newTestServer(t)
	ms.GetAccountError = errors.New("dial tcp 10.0.0.1: connection refused")

	rec := do(t, h, http.MethodGet, "/me", "alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, string(shared.CodeUnavailable), resp.Code)
	assert.NotContains(t, resp.Error, "10.0.0.1")
}

func TestDecodeJSON_Rejects(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/teams", "alice", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/teams", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body is required", decode[errorResponse](t, rec).Error)
}

// endregion
