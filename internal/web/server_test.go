package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datagrid/internal/config"
	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/source"
	"github.com/JonMunkholm/datagrid/internal/web/views"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc := core.NewService(source.NewMock(30, 7), nil, core.Options{
		PageSize:       10,
		PreferencesKey: "test",
		RestoreLayout:  true,
		Columns:        source.DefaultColumns(),
	})
	srv := NewServer(svc, cfg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeGrid(t *testing.T, rec *httptest.ResponseRecorder) views.Grid {
	t.Helper()
	var g views.Grid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g), rec.Body.String())
	return g
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func createGrid(t *testing.T, srv *Server) views.Grid {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/grids", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeGrid(t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())
	createGrid(t, srv)

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string                 `json:"status"`
		Sessions int                    `json:"sessions"`
		Loads    core.LoadLimiterStatus `json:"loads"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Sessions)
	assert.Equal(t, core.LoadLimiterStatus{Active: 0, Available: 5, MaxConcurrent: 5}, body.Loads)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCreateGrid(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	assert.NotEmpty(t, g.ID)
	assert.Len(t, g.Rows, 10)
	assert.Equal(t, 30, g.Pagination.Total)
	assert.Equal(t, 3, g.Pagination.TotalPages)
	assert.Equal(t, 1, g.Pagination.From)
	assert.Equal(t, 10, g.Pagination.To)
	assert.Equal(t, []int{1, 2, 3}, g.Pagination.Pages)
	assert.Len(t, g.Columns.Center, 9)
	assert.Empty(t, g.Columns.Left)
	assert.False(t, g.Loading)
}

func TestCreateGrid_BadBody(t *testing.T) {
	srv := newTestServer(t, testConfig())
	rec := do(t, srv, http.MethodPost, "/api/grids", "{nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "GRID003", decodeError(t, rec).Code)
}

func TestGetGrid_NotFound(t *testing.T) {
	srv := newTestServer(t, testConfig())
	rec := do(t, srv, http.MethodGet, "/api/grids/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "GRID001", decodeError(t, rec).Code)
}

func TestDispatch(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	body := `[
		{"type": "SET_SORT", "payload": [{"field": "salary", "sort": "desc"}]},
		{"type": "SET_PAGINATION", "payload": {"page": 2}},
		{"type": "PIN_COLUMN", "payload": {"field": "name", "side": "left"}},
		{"type": "SET_DENSITY", "payload": "compact"}
	]`
	rec := do(t, srv, http.MethodPost, "/api/grids/"+g.ID+"/actions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeGrid(t, rec)
	assert.Equal(t, 2, got.Pagination.Page)
	assert.Equal(t, 11, got.Pagination.From)
	require.Len(t, got.Rows, 10)
	for i := 1; i < len(got.Rows); i++ {
		prev := got.Rows[i-1]["salary"].(float64)
		cur := got.Rows[i]["salary"].(float64)
		assert.GreaterOrEqual(t, prev, cur, "rows should be sorted by salary desc")
	}
	require.Len(t, got.Columns.Left, 1)
	assert.Equal(t, "name", got.Columns.Left[0].Field)
	assert.Equal(t, "compact", string(got.Density))
}

func TestDispatch_FilterAndSearch(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/grids/"+g.ID+"/actions",
		`{"type": "SET_SEARCH", "payload": "user1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeGrid(t, rec)
	// user1 and user10 .. user19 by email
	assert.Equal(t, 11, got.Pagination.Total)
	assert.Equal(t, "user1", got.SearchQuery)
}

func TestDispatch_Errors(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown type", "/api/grids/" + g.ID + "/actions", `{"type": "EXPLODE"}`, http.StatusBadRequest, "GRID002"},
		{"bad json", "/api/grids/" + g.ID + "/actions", `{"type":`, http.StatusBadRequest, "GRID003"},
		{"empty body", "/api/grids/" + g.ID + "/actions", ``, http.StatusBadRequest, "GRID003"},
		{"bad operator", "/api/grids/" + g.ID + "/actions",
			`{"type": "SET_FILTER", "payload": {"field": "name", "value": "a", "operator": "regex"}}`,
			http.StatusBadRequest, "GRID003"},
		{"unknown session", "/api/grids/nope/actions", `{"type": "CLEAR_SELECTION"}`, http.StatusNotFound, "GRID001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
		})
	}
}

func TestReload(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/grids/"+g.ID+"/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 30, decodeGrid(t, rec).Pagination.Total)

	rec = do(t, srv, http.MethodPost, "/api/grids/nope/reload", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/grids/"+g.ID+"/actions",
		`[{"type": "TOGGLE_COLUMN_VISIBILITY", "payload": "email"},
		  {"type": "SET_FILTER", "payload": {"field": "id", "value": 5, "operator": "lte"}}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("csv", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/grids/"+g.ID+"/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

		records, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 6)
		assert.Equal(t, []string{"ID", "Name", "Role", "Department", "Salary", "Join Date", "Status", "Actions"}, records[0])
		assert.Equal(t, "1", records[1][0])
	})

	t.Run("tsv", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/grids/"+g.ID+"/export?format=tsv", "")
		require.Equal(t, http.StatusOK, rec.Code)
		first, _, _ := strings.Cut(rec.Body.String(), "\n")
		assert.Equal(t, "ID\tName\tRole\tDepartment\tSalary\tJoin Date\tStatus\tActions", first)
	})

	t.Run("json", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/grids/"+g.ID+"/export?format=json", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 5)
		assert.Contains(t, rows[0], "email", "json export ignores visibility")
	})

	t.Run("unsupported", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/grids/"+g.ID+"/export?format=xlsx", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "GRID003", decodeError(t, rec).Code)
	})
}

func TestDeleteGrid(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	rec := do(t, srv, http.MethodDelete, "/api/grids/"+g.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/grids/"+g.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/grids/"+g.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGridPage(t *testing.T) {
	srv := newTestServer(t, testConfig())
	g := createGrid(t, srv)

	rec := do(t, srv, http.MethodGet, "/grids/"+g.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, ">Department</th>")
	assert.Contains(t, html, "user1@company.com")
	assert.Contains(t, html, "Showing 1 to 10 of 30")

	rec = do(t, srv, http.MethodGet, "/grids/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "GRID001")
}

func TestGridPage_HTMXError(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/grids/missing", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
}

func TestLoadRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, LoadLimit: 1}
	srv := newTestServer(t, cfg)

	createGrid(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/grids", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// plain reads still pass
	rec = do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodPost, "/api/grids", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/grids", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(core.ErrSessionNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(core.ErrTooManyLoads))
	assert.Equal(t, http.StatusConflict, statusFor(core.ErrStaleLoad))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
