package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/search"
	"github.com/fyrsmithlabs/kbd/internal/store"
)

const testAPIKey = "test-key"

// newTestEngine loads a small fixture knowledge base.
func newTestEngine(t *testing.T) *search.Engine {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("best_practices.json", `[
		{"id": "bp-1", "title": "Validate connector inputs", "category": "connectors",
		 "description": "Check inputs first", "difficulty": "intermediate", "tags": ["connectors"]},
		{"id": "bp-2", "title": "Keep trigger phrases distinct", "category": "topics",
		 "description": "Avoid overlap", "difficulty": "beginner", "tags": ["topics"]}
	]`)
	write("snippets.json", `[
		{"id": "snip-1", "title": "Format a date", "language": "power-fx",
		 "description": "Date formatting", "code": "Text(Now())", "tags": ["dates"]}
	]`)
	write("troubleshooting.json", `[
		{"id": "ts-1", "title": "Topic not triggering", "category": "topics",
		 "symptoms": ["fallback fires"], "causes": ["overlap"],
		 "steps": [{"step": 1, "action": "check triggers", "details": ""}], "tags": ["topics"]}
	]`)
	write("tips.json", `[
		{"id": "tip-1", "title": "Use the tracking panel", "category": "testing",
		 "tip": "Open it", "tags": ["testing"]}
	]`)
	write("governance.json", `[
		{"feature": "http-connector", "display_name": "HTTP Connector", "minimum_zone": "yellow",
		 "zones": {"yellow": {"available": true}}}
	]`)

	s, err := store.Load(dir)
	require.NoError(t, err)
	return search.NewEngine(s)
}

// newTestServer builds a server with a stub MCP handler that records the
// Accept header it receives.
func newTestServer(t *testing.T) (*Server, *string) {
	t.Helper()

	var seenAccept string
	mcpHandler := func(c echo.Context) error {
		seenAccept = c.Request().Header.Get(echo.HeaderAccept)
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	}

	srv, err := NewServer(newTestEngine(t), mcpHandler,
		map[string]struct{}{testAPIKey: {}}, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv, &seenAccept
}

// do performs a request against the in-memory router.
func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func authed(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(apiKeyHeader, testAPIKey)
	return req
}

func TestHealthNoAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.True(t, body.DataLoaded)
}

func TestAuthGate(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "missing key", key: "", want: http.StatusUnauthorized},
		{name: "wrong key", key: "nope", want: http.StatusUnauthorized},
		{name: "valid key", key: testAPIKey, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tips", nil)
			if tt.key != "" {
				req.Header.Set(apiKeyHeader, tt.key)
			}
			rec := do(srv, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"detail": "Invalid or missing API key"}`, rec.Body.String())
			}
		})
	}
}

func TestCORSPreflightBypassesAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tips", nil)
	req.Header.Set(echo.HeaderOrigin, "https://copilotstudio.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)

	rec := do(srv, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestListBestPractices(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/best-practices?q=connector"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse[store.BestPractice]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "bp-1", body.Results[0].ID)
	assert.Equal(t, len(body.Results), body.Total)
}

func TestListBestPracticesUnknownFilterIsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/best-practices?difficulty=expert"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse[store.BestPractice]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Results)
	assert.Equal(t, 0, body.Total)
}

func TestGetBestPractice(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/best-practices/bp-2"))
	require.Equal(t, http.StatusOK, rec.Code)

	var bp store.BestPractice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bp))
	assert.Equal(t, "Keep trigger phrases distinct", bp.Title)
}

func TestGetBestPracticeNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/best-practices/missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnippets(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/snippets?q=date&language=power-fx"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse[store.Snippet]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "snip-1", body.Results[0].ID)

	rec = do(srv, authed(http.MethodGet, "/api/v1/snippets/snip-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var sn store.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sn))
	assert.Equal(t, "Text(Now())", sn.Code)
}

func TestTroubleshootingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/troubleshooting?q=fallback"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse[store.TroubleshootingGuide]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "ts-1", body.Results[0].ID)

	rec = do(srv, authed(http.MethodGet, "/api/v1/troubleshooting/ts-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTipsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/api/v1/tips?category=testing"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listResponse[store.Tip]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}

func TestGovernanceLookup(t *testing.T) {
	srv, _ := newTestServer(t)

	// The path parameter is normalized, so a display-style name resolves.
	rec := do(srv, authed(http.MethodGet, "/api/v1/governance/HTTP_Connector"))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry store.GovernanceEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "http-connector", entry.Feature)

	rec = do(srv, authed(http.MethodGet, "/api/v1/governance/telepathy"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
