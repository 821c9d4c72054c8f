package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/internal/geo"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/rs/zerolog"
)

// LatestPosition returns the newest fix for the satellite, reading through the cache.
func (svc *Service) LatestPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error) {
	logger := zerolog.Ctx(ctx)

	pos, err := svc.Cache.GetPosition(ctx, satelliteID)
	if err == nil {
		return pos, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn().Err(err).Msg("Position cache read failed")
	}

	pos, err = svc.DB.GetLatestPosition(ctx, satelliteID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, notFound("no position has been reported for satellite %s", satelliteID)
	}

	if _, err := svc.Cache.SetPositionIfNewer(ctx, *pos); err != nil {
		logger.Warn().Err(err).Msg("Position cache write failed")
	}
	return pos, nil
}

// RecordPosition validates and stores a fix, then refreshes the cache if the fix is the newest.
func (svc *Service) RecordPosition(ctx context.Context, req models.PositionRequest) (*models.SatellitePosition, error) {
	pos, err := req.ToPosition(svc.satelliteID(), svc.now())
	if err != nil {
		return nil, err
	}

	saved, err := svc.DB.InsertPosition(ctx, pos)
	if err != nil {
		return nil, err
	}

	if _, err := svc.Cache.SetPositionIfNewer(ctx, *saved); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Position cache write failed")
	}
	return saved, nil
}

// Coverage relates the latest fix to the active ground station.
func (svc *Service) Coverage(ctx context.Context, satelliteID string) (*models.Coverage, error) {
	gs, err := svc.ActiveGroundStation(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := svc.LatestPosition(ctx, satelliteID)
	if err != nil {
		return nil, err
	}

	distance := geo.DistanceKm(gs.Latitude, gs.Longitude, pos.Latitude, pos.Longitude)
	return &models.Coverage{
		Station:        *gs,
		Satellite:      *pos,
		DistanceKm:     distance,
		CoverageRadius: gs.CoverageRadius,
		WithinCoverage: geo.WithinRadius(distance, gs.CoverageRadius),
		Zoom:           geo.Zoom(distance),
	}, nil
}

func (svc *Service) requestedSatellite(r *http.Request) string {
	if id := r.URL.Query().Get("satellite"); id != "" {
		return id
	}
	return svc.satelliteID()
}

// GetLatestPositionService returns the satellite's current location.
func GetLatestPositionService(svc *Service, w http.ResponseWriter, r *http.Request) {
	pos, err := svc.LatestPosition(r.Context(), svc.requestedSatellite(r))
	if err != nil {
		handleError(w, r, err, "Failed to retrieve satellite location")
		return
	}
	WriteResponse(w, http.StatusOK, pos)
}

// RecordPositionService stores a position fix posted by the tracker.
func RecordPositionService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.PositionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}

	pos, err := svc.RecordPosition(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "Failed to record satellite position")
		return
	}

	logger.Info().Str("satellite_id", pos.SatelliteID).
		Float64("latitude", pos.Latitude).Float64("longitude", pos.Longitude).
		Msg("Satellite position recorded")
	WriteResponse(w, http.StatusCreated, pos)
}

// GetTrackService returns the most recent fixes, newest first.
func GetTrackService(svc *Service, w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		handleError(w, r, err, "Invalid limit")
		return
	}

	track, err := svc.DB.GetTrack(r.Context(), svc.requestedSatellite(r), limit)
	if err != nil {
		handleError(w, r, err, "Database error retrieving track")
		return
	}
	if track == nil {
		track = []models.SatellitePosition{}
	}
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(track), Items: track})
}

// CoverageService returns the distance between the satellite and the ground station.
func CoverageService(svc *Service, w http.ResponseWriter, r *http.Request) {
	coverage, err := svc.Coverage(r.Context(), svc.requestedSatellite(r))
	if err != nil {
		handleError(w, r, err, "Failed to compute coverage")
		return
	}
	WriteResponse(w, http.StatusOK, coverage)
}
