package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordPosition_CacheKeepsNewestFix(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)
	withRedisCache(t, svc)
	ctx := context.Background()

	newer := models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: 10, Longitude: 10, RecordedAt: testNow}
	older := models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: 20, Longitude: 20, RecordedAt: testNow.Add(-time.Hour)}

	mockDB.On("InsertPosition", mock.MatchedBy(func(p models.SatellitePosition) bool { return p.Latitude == 10 })).Return(&newer, nil)
	mockDB.On("InsertPosition", mock.MatchedBy(func(p models.SatellitePosition) bool { return p.Latitude == 20 })).Return(&older, nil)

	_, err := svc.RecordPosition(ctx, models.PositionRequest{Latitude: fp(10), Longitude: fp(10), RecordedAt: testNow})
	require.NoError(t, err)
	_, err = svc.RecordPosition(ctx, models.PositionRequest{Latitude: fp(20), Longitude: fp(20), RecordedAt: testNow.Add(-time.Hour)})
	require.NoError(t, err)

	latest, err := svc.LatestPosition(ctx, "agrosat-1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	mockDB.AssertNotCalled(t, "GetLatestPosition", mock.Anything)
}

func TestGetLatestPositionService(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)

	pos := &models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-2", Latitude: 5, Longitude: 6, RecordedAt: testNow}
	mockDB.On("GetLatestPosition", "agrosat-2").Return(pos, nil)
	mockDB.On("GetLatestPosition", "agrosat-1").Return(nil, nil)

	w := httptest.NewRecorder()
	GetLatestPositionService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/satLocation/?satellite=agrosat-2", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.SatellitePosition
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, pos.ID, got.ID)

	w = httptest.NewRecorder()
	GetLatestPositionService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/satLocation/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordPositionService(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)

	mockDB.On("InsertPosition", mock.MatchedBy(func(p models.SatellitePosition) bool {
		return p.SatelliteID == "agrosat-1" && p.RecordedAt.Equal(testNow)
	})).Return(&models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: 1, Longitude: 2, RecordedAt: testNow}, nil)

	w := httptest.NewRecorder()
	RecordPositionService(svc, w, jsonRequest(http.MethodPost, "/backendapi/sat/", `{"latitude": 1, "longitude": 2, "altitude": 520}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	mockDB.AssertExpectations(t)
}

func TestRecordPositionService_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing coordinates", `{"altitude": 500}`},
		{"longitude out of range", `{"latitude": 0, "longitude": 200}`},
		{"negative altitude", `{"latitude": 0, "longitude": 0, "altitude": -1}`},
		{"future fix", `{"latitude": 0, "longitude": 0, "recordedAt": "2025-03-01T13:00:00Z"}`},
		{"satellite id too long", `{"satelliteId": "` + longSatelliteID + `", "latitude": 0, "longitude": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockStationDB)
			svc := newTestService(t, mockDB)

			w := httptest.NewRecorder()
			RecordPositionService(svc, w, jsonRequest(http.MethodPost, "/backendapi/sat/", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockDB.AssertNotCalled(t, "InsertPosition", mock.Anything)
		})
	}
}

func TestCoverageService(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)

	mockDB.On("GetActiveGroundStation").Return(&models.GroundStation{ID: uuid.New(), Latitude: 0, Longitude: 0, CoverageRadius: 5000, Active: true}, nil)
	mockDB.On("GetLatestPosition", "agrosat-1").Return(&models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: 0, Longitude: 0.01, RecordedAt: testNow}, nil)

	w := httptest.NewRecorder()
	CoverageService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/coverage/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Coverage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.InDelta(t, 1.112, got.DistanceKm, 0.01)
	assert.True(t, got.WithinCoverage)
	assert.InDelta(t, 12.89, got.Zoom, 0.01)
}

func TestGetTrackService(t *testing.T) {
	mockDB := new(MockStationDB)
	svc := newTestService(t, mockDB)
	mockDB.On("GetTrack", "agrosat-1", 10).Return([]models.SatellitePosition{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	w := httptest.NewRecorder()
	GetTrackService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/sat/?limit=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 2, got.Count)

	w = httptest.NewRecorder()
	GetTrackService(svc, w, httptest.NewRequest(http.MethodGet, "/backendapi/sat/?limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
