package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/api/middleware"
	"github.com/AgroXSat/groundstation-services/api/services"
	"github.com/AgroXSat/groundstation-services/internal/appconfig"
	"github.com/AgroXSat/groundstation-services/internal/authn"
	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *services.Service, *services.MockStationDB) {
	t.Helper()

	cfg, err := appconfig.Parse([]byte("satellite:\n  id: agrosat-1\nrateLimit:\n  rps: 100\n  burst: 100\n"))
	require.NoError(t, err)

	issuer, err := authn.NewIssuer("groundstation-test", "test-signing-secret-0123", time.Minute, time.Hour)
	require.NoError(t, err)

	stationDB := new(services.MockStationDB)
	svc := &services.Service{
		Config: cfg,
		DB:     stationDB,
		Cache:  cache.Noop{},
		Tokens: issuer,
	}

	registry := prometheus.NewRegistry()
	r := NewRouter(svc, RouterOptions{
		Metrics:  middleware.NewMetrics(registry),
		Gatherer: registry,
	})
	return r, svc, stationDB
}

func bearer(t *testing.T, svc *services.Service, username string, roles ...string) string {
	t.Helper()
	access, _, err := svc.Tokens.IssuePair(username, roles)
	require.NoError(t, err)
	return "Bearer " + access
}

func TestNewRouter_RouteNames(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		name   string
	}{
		{http.MethodGet, "/backendapi/", RouteGround},
		{http.MethodGet, "/backendapi/satLocation/", RouteSatLocation},
		{http.MethodGet, "/backendapi/sat/", RouteSatTracker},
		{http.MethodPost, "/backendapi/sat/", RouteSatTracker},
		{http.MethodGet, "/backendapi/images/", RouteImages},
		{http.MethodPost, "/backendapi/images/", RouteImages},
		{http.MethodGet, "/backendapi/images/0b7e6a3c-5b0e-4f59-9d43-4c1f8d1e2a10/", RouteImage},
		{http.MethodGet, "/backendapi/baseStation/", RouteStation},
		{http.MethodPost, "/backendapi/baseStation/", RouteStation},
		{http.MethodGet, "/backendapi/baseStation/5d1c0e52-8a3f-4c55-9b1e-2f6a7c9d0e34/", RouteStationDetail},
		{http.MethodPost, "/backendapi/setGS/", RouteStationSetting},
		{http.MethodPut, "/backendapi/setGS/", RouteStationSetting},
		{http.MethodGet, "/backendapi/command/", RouteCommand},
		{http.MethodPost, "/backendapi/command/", RouteCommand},
		{http.MethodGet, "/backendapi/command/7f3b2a10-1c4d-4e8f-a2b6-9d0c5e4f3a21/", RouteCommandDetail},
		{http.MethodGet, "/backendapi/payload/", RoutePayload},
		{http.MethodPost, "/backendapi/payload/", RoutePayload},
		{http.MethodGet, "/backendapi/telemetry/", RouteTelemetry},
		{http.MethodPost, "/backendapi/telemetry/", RouteTelemetry},
		{http.MethodGet, "/backendapi/coverage/", RouteCoverage},
		{http.MethodPost, "/backend/login/", RouteLogin},
		{http.MethodPost, "/backend/token/refresh/", RouteTokenRefresh},
		{http.MethodGet, "/healthz", RouteHealth},
		{http.MethodGet, "/metrics", RouteMetrics},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var match mux.RouteMatch
			req := httptest.NewRequest(tt.method, tt.path, nil)
			require.True(t, r.Match(req, &match), "no route for %s", tt.path)
			require.NotNil(t, match.Route)
			assert.Equal(t, tt.name, match.Route.GetName())
		})
	}
}

func TestNewRouter_ReverseLookup(t *testing.T) {
	r, _, _ := newTestRouter(t)

	u, err := r.Get(RouteStationSetting).URL()
	require.NoError(t, err)
	assert.Equal(t, "/backendapi/setGS/", u.Path)

	u, err = r.Get(RouteStationDetail).URL("station-id", "abc")
	require.NoError(t, err)
	assert.Equal(t, "/backendapi/baseStation/abc/", u.Path)

	u, err = r.Get(RouteCommandDetail).URL("command-id", "abc")
	require.NoError(t, err)
	assert.Equal(t, "/backendapi/command/abc/", u.Path)
}

func TestNewRouter_Unmatched(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, p := range []string{"/backendapi/unknown/", "/nothing", "/backendapi/images/a/b/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))

		assert.Equal(t, http.StatusNotFound, w.Code, p)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body models.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Not Found", body.ErrorCode)
	}
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodDelete, "/backendapi/satLocation/", "GET"},
		{http.MethodGet, "/backendapi/setGS/", "POST, PUT"},
		{http.MethodPatch, "/backendapi/command/", "GET, POST"},
		{http.MethodPost, "/backendapi/coverage/", "GET"},
		{http.MethodGet, "/backend/login/", "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, tt.allow, w.Header().Get("Allow"))

			var body models.Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, "Method Not Allowed", body.ErrorCode)
		})
	}
}

func TestNewRouter_TrailingSlashRedirect(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backendapi/satLocation", nil))

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/backendapi/satLocation/", w.Header().Get("Location"))
}

func TestNewRouter_GroundReachesService(t *testing.T) {
	r, _, stationDB := newTestRouter(t)
	stationDB.On("GetActiveGroundStation").Return(nil, nil).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backendapi/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no ground station has been configured")
	stationDB.AssertExpectations(t)
}

func TestNewRouter_WriteAuth(t *testing.T) {
	r, svc, stationDB := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"station setting without token", "/backendapi/setGS/", "", http.StatusUnauthorized},
		{"telemetry without token", "/backendapi/telemetry/", "", http.StatusUnauthorized},
		{"refresh token rejected", "/backendapi/payload/", "refresh", http.StatusUnauthorized},
		{"viewer issuing command", "/backendapi/command/", "viewer", http.StatusForbidden},
		{"operator issuing invalid command", "/backendapi/command/", "operator", http.StatusBadRequest},
		{"viewer setting station with invalid body", "/backendapi/setGS/", "viewer", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			switch tt.token {
			case "viewer":
				req.Header.Set("Authorization", bearer(t, svc, "viewer1", models.RoleViewer))
			case "operator":
				req.Header.Set("Authorization", bearer(t, svc, "operator1", models.RoleOperator))
			case "refresh":
				_, refresh, err := svc.Tokens.IssuePair("operator1", []string{models.RoleOperator})
				require.NoError(t, err)
				req.Header.Set("Authorization", "Bearer "+refresh)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	// Invalid bodies are rejected before any database call
	stationDB.AssertExpectations(t)
}

func TestNewRouter_Metrics(t *testing.T) {
	r, _, stationDB := newTestRouter(t)
	stationDB.On("ListGroundStations").Return([]models.GroundStation{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backendapi/baseStation/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `groundstation_http_requests_total{code="200",method="get",route="station"} 1`)
}
