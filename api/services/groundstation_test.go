package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withRedisCache(t *testing.T, svc *Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	svc.Cache = cache.NewRedisCache(client, time.Minute)
}

func TestGetActiveGroundStationService_NotConfigured(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)
	mockDB.On("GetActiveGroundStation").Return(nil, nil)

	w := httptest.NewRecorder()
	GetActiveGroundStationService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeErrorBody(t, w).ErrorDetails, "no ground station")
}

func TestActiveGroundStation_ReadThroughAndInvalidate(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)
	withRedisCache(t, svc)
	ctx := context.Background()

	station := &models.GroundStation{ID: uuid.New(), Name: "nairobi", Latitude: -1.29, Longitude: 36.82, CoverageRadius: 1000, Active: true}
	mockDB.On("GetActiveGroundStation").Return(station, nil)

	for i := 0; i < 3; i++ {
		gs, err := svc.ActiveGroundStation(ctx)
		require.NoError(t, err)
		assert.Equal(t, station.ID, gs.ID)
	}
	mockDB.AssertNumberOfCalls(t, "GetActiveGroundStation", 1)

	moved := *station
	moved.Latitude = -1.30
	mockDB.On("SaveActiveGroundStation", mock.Anything).Return(&moved, false, nil)

	_, created, err := svc.SetGroundStation(ctx, &models.GroundStationRequest{Latitude: fp(-1.30), Longitude: fp(36.82)})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.ActiveGroundStation(ctx)
	require.NoError(t, err)
	mockDB.AssertNumberOfCalls(t, "GetActiveGroundStation", 2)
}

func TestSetGroundStationService_CreateThenMove(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)

	station := &models.GroundStation{ID: uuid.New(), Name: "ground-station", Latitude: -1.29, Longitude: 36.82, CoverageRadius: 1000, Active: true}
	mockDB.On("SaveActiveGroundStation", mock.Anything).Return(station, true, nil).Once()
	mockDB.On("SaveActiveGroundStation", mock.Anything).Return(station, false, nil).Once()

	w := httptest.NewRecorder()
	SetGroundStationService(svc, w, jsonRequest(http.MethodPost, "/backendapi/setGS/", `{"latitude": -1.29, "longitude": 36.82}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/backendapi/baseStation/"+station.ID.String()+"/", w.Header().Get("Location"))

	var got models.GroundStation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, station.ID, got.ID)

	w = httptest.NewRecorder()
	SetGroundStationService(svc, w, jsonRequest(http.MethodPost, "/backendapi/setGS/", `{"latitude": -1.29, "longitude": 36.82}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestSetGroundStationService_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing longitude", `{"latitude": 10}`},
		{"latitude out of range", `{"latitude": 91, "longitude": 0}`},
		{"radius too small", `{"latitude": 1, "longitude": 1, "coverageRadius": 10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockStationDB)
			svc := newTestService(t, mockDB)

			w := httptest.NewRecorder()
			SetGroundStationService(svc, w, jsonRequest(http.MethodPost, "/backendapi/setGS/", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockDB.AssertNotCalled(t, "SaveActiveGroundStation", mock.Anything)
		})
	}
}

func TestListGroundStationsService_Empty(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)
	mockDB.On("ListGroundStations").Return(nil, nil)

	w := httptest.NewRecorder()
	ListGroundStationsService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/baseStation/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 0, "items": []}`, w.Body.String())
}

func TestCreateGroundStationService(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)

	id := uuid.New()
	mockDB.On("CreateGroundStation", mock.MatchedBy(func(gs models.GroundStation) bool {
		return gs.Name == "mombasa" && gs.CoverageRadius == models.DefaultCoverageRadius && !gs.Active
	})).Return(&models.GroundStation{ID: id, Name: "mombasa"}, nil)

	w := httptest.NewRecorder()
	CreateGroundStationService(svc, w, jsonRequest(http.MethodPost, "/backendapi/baseStation/", `{"name": " mombasa ", "latitude": -4.04, "longitude": 39.67}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/backendapi/baseStation/"+id.String()+"/", w.Header().Get("Location"))
	mockDB.AssertExpectations(t)
}

func TestGetGroundStationService(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		id     string
		found  *models.GroundStation
		status int
	}{
		{"found", id.String(), &models.GroundStation{ID: id, Name: "mombasa"}, http.StatusOK},
		{"missing", id.String(), nil, http.StatusNotFound},
		{"not a uuid", "mombasa", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockStationDB)
			svc := newTestService(t, mockDB)
			if tt.status != http.StatusBadRequest {
				mockDB.On("GetGroundStation", id).Return(tt.found, nil).Once()
			}

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"station-id": tt.id})
			w := httptest.NewRecorder()
			GetGroundStationService(svc, w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.found != nil {
				var got models.GroundStation
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.Equal(t, id, got.ID)
			}
			mockDB.AssertExpectations(t)
		})
	}
}
