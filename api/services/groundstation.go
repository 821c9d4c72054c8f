package services

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ActiveGroundStation returns the active station, reading through the cache.
func (svc *Service) ActiveGroundStation(ctx context.Context) (*models.GroundStation, error) {
	logger := zerolog.Ctx(ctx)

	gs, err := svc.Cache.GetStation(ctx)
	if err == nil {
		return gs, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn().Err(err).Msg("Ground station cache read failed")
	}

	gs, err = svc.DB.GetActiveGroundStation(ctx)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, notFound("no ground station has been configured")
	}

	if err := svc.Cache.SetStation(ctx, *gs); err != nil {
		logger.Warn().Err(err).Msg("Ground station cache write failed")
	}
	return gs, nil
}

// SetGroundStation moves the active station, creating one if none exists.
func (svc *Service) SetGroundStation(ctx context.Context, req *models.GroundStationRequest) (*models.GroundStation, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	gs, created, err := svc.DB.SaveActiveGroundStation(ctx, req)
	if err != nil {
		return nil, false, err
	}

	if err := svc.Cache.InvalidateStation(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Ground station cache invalidation failed")
	}
	return gs, created, nil
}

// GetActiveGroundStationService returns the coordinates of the active ground station.
func GetActiveGroundStationService(svc *Service, w http.ResponseWriter, r *http.Request) {
	gs, err := svc.ActiveGroundStation(r.Context())
	if err != nil {
		handleError(w, r, err, "Failed to retrieve ground station")
		return
	}
	WriteResponse(w, http.StatusOK, gs)
}

// GetGroundStationService returns a single ground station by ID.
func GetGroundStationService(svc *Service, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["station-id"])
	if err != nil {
		handleError(w, r, models.NewValidationError("id", "must be a UUID"), "Invalid ground station ID")
		return
	}

	gs, err := svc.DB.GetGroundStation(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Database error retrieving ground station")
		return
	}
	if gs == nil {
		handleError(w, r, notFound("ground station %s does not exist", id), "Ground station not found")
		return
	}
	WriteResponse(w, http.StatusOK, gs)
}

func stationLocation(svc *Service, id uuid.UUID) string {
	return path.Join(svc.Config.BasePath, "baseStation", id.String()) + "/"
}

// ListGroundStationsService returns every registered ground station.
func ListGroundStationsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	stations, err := svc.DB.ListGroundStations(r.Context())
	if err != nil {
		handleError(w, r, err, "Database error retrieving ground stations")
		return
	}

	// Ensure stations is not nil so the body is an empty list rather than null
	if stations == nil {
		stations = []models.GroundStation{}
	}

	logger.Info().Int("station_count", len(stations)).Msg("Successfully retrieved ground stations")
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(stations), Items: stations})
}

// CreateGroundStationService registers a new ground station.
func CreateGroundStationService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.GroundStationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, r, err, "Invalid ground station")
		return
	}

	gs, err := svc.DB.CreateGroundStation(r.Context(), req.ToGroundStation())
	if err != nil {
		handleError(w, r, err, "Database error creating ground station")
		return
	}

	if gs.Active {
		if err := svc.Cache.InvalidateStation(r.Context()); err != nil {
			logger.Warn().Err(err).Msg("Ground station cache invalidation failed")
		}
	}

	logger.Info().Str("station_id", gs.ID.String()).Bool("active", gs.Active).Msg("Ground station registered")
	WriteResponse(w, http.StatusCreated, gs, stationLocation(svc, gs.ID))
}

// SetGroundStationService saves new coordinates for the active ground station.
func SetGroundStationService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.GroundStationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}

	gs, created, err := svc.SetGroundStation(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "Failed to save ground station coordinates")
		return
	}

	logger.Info().Str("station_id", gs.ID.String()).
		Float64("latitude", gs.Latitude).Float64("longitude", gs.Longitude).
		Msg("Ground station coordinates saved")

	if created {
		WriteResponse(w, http.StatusCreated, gs, stationLocation(svc, gs.ID))
		return
	}
	WriteResponse(w, http.StatusOK, gs)
}
