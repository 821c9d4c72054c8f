package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Get the satellite's current location
// @Tags satellite
// @Produce json
// @Param satellite query string false "Satellite ID, defaults to the configured satellite"
// @Success 200 {object} models.SatellitePosition
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /satLocation/ [get]
func GetSatelliteLocation(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetLatestPositionService(svc, w, r)
	}
}

// @Summary Report a satellite position fix
// @Tags satellite
// @Accept json
// @Produce json
// @Param position body models.PositionRequest true "Position fix"
// @Success 201 {object} models.SatellitePosition
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /sat/ [post]
func TrackSatellite(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RecordPositionService(svc, w, r)
	}
}

// @Summary Get the satellite's recent track
// @Tags satellite
// @Produce json
// @Param satellite query string false "Satellite ID"
// @Param limit query int false "Maximum number of fixes" default(100)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /sat/ [get]
func GetSatelliteTrack(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetTrackService(svc, w, r)
	}
}

// @Summary Get ground station coverage
// @Description Distance between the active ground station and the satellite, and whether the satellite is within the coverage radius.
// @Tags satellite
// @Produce json
// @Param satellite query string false "Satellite ID"
// @Success 200 {object} models.Coverage
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /coverage/ [get]
func GetCoverage(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CoverageService(svc, w, r)
	}
}
