package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhotchkiss/biztask/internal/assistant"
	"github.com/samhotchkiss/biztask/internal/metrics"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

type cannedReplier string

func (c cannedReplier) GetReply(context.Context, string, []assistant.Turn) string {
	return string(c)
}

func newTestRouter(t *testing.T) (http.Handler, *workspace.Registry) {
	t.Helper()
	registry := workspace.NewRegistry(workspace.Options{Assistant: cannedReplier("Chào bạn!")})
	return NewRouter(Options{Registry: registry}), registry
}

// do sends a request scoped to workspaceID with an optional JSON body.
func do(t *testing.T, h http.Handler, method, target, workspaceID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if workspaceID != "" {
		req.Header.Set("X-Workspace-ID", workspaceID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func login(t *testing.T, h http.Handler, workspaceID, role string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/session/login", workspaceID, map[string]string{"role": role})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouterSetup(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		name   string
		target string
	}{
		{name: "health", target: "/health"},
		{name: "root", target: "/"},
	} {
		rec := do(t, router, http.MethodGet, tc.target, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, tc.name)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", tc.name)
	}
}

func TestHealthReportsWorkspaces(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	do(t, router, http.MethodGet, "/api/session", "a", nil)
	do(t, router, http.MethodGet, "/api/session", "b", nil)

	rec := do(t, router, http.MethodGet, "/health", "", nil)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Workspaces)
	assert.Equal(t, "dev", resp.Version)
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Workspace-ID")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "x-workspace-id")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	t.Parallel()

	registry := workspace.NewRegistry(workspace.Options{})
	router := NewRouter(Options{Registry: registry, CORSAllowedOrigins: []string{"https://app.biztask.local"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.biztask.local")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.biztask.local", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	registry := workspace.NewRegistry(workspace.Options{Metrics: m})
	router := NewRouter(Options{Registry: registry, Gatherer: reg})

	login(t, router, "acme", "ADMIN")

	rec := do(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `biztask_store_operations_total{operation="login",outcome="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "biztask_workspaces 1")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidWorkspaceRejected(t *testing.T) {
	t.Parallel()

	router, registry := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/session", "no/slashes", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid workspace id", decode[errorResponse](t, rec).Error)
	assert.Equal(t, 0, registry.Len())
}

func TestWorkspacesAreIsolatedOverHTTP(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	login(t, router, "a", "ADMIN")

	rec := do(t, router, http.MethodPost, "/api/tasks", "a", map[string]string{
		"title":       "Chỉ ở workspace a",
		"assignee_id": "u3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	a := decode[TasksResponse](t, do(t, router, http.MethodGet, "/api/tasks", "a", nil))
	b := decode[TasksResponse](t, do(t, router, http.MethodGet, "/api/tasks", "b", nil))
	assert.Len(t, a.Tasks, 6)
	assert.Len(t, b.Tasks, 5)

	rec = do(t, router, http.MethodGet, "/api/tasks?workspace_id=a", "", nil)
	assert.Len(t, decode[TasksResponse](t, rec).Tasks, 6, "query parameter selects the workspace")
}

func TestInvalidBody(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode[errorResponse](t, rec).Error)
}
