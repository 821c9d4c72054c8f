package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Get the active ground station
// @Description Returns the coordinates and coverage radius of the active ground station.
// @Tags ground station
// @Produce json
// @Success 200 {object} models.GroundStation
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router / [get]
func GetGroundStation(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetActiveGroundStationService(svc, w, r)
	}
}

// @Summary List ground stations
// @Tags ground station
// @Produce json
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} models.Response
// @Router /baseStation/ [get]
func ListGroundStations(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListGroundStationsService(svc, w, r)
	}
}

// @Summary Get a ground station
// @Tags ground station
// @Produce json
// @Param station-id path string true "Ground station ID"
// @Success 200 {object} models.GroundStation
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /baseStation/{station-id}/ [get]
func GetGroundStationByID(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetGroundStationService(svc, w, r)
	}
}

// @Summary Register a ground station
// @Description Setting active to true deactivates every other station.
// @Tags ground station
// @Accept json
// @Produce json
// @Param station body models.GroundStationRequest true "Ground station"
// @Success 201 {object} models.GroundStation
// @Header 201 {string} Location "URL of the new station"
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /baseStation/ [post]
func CreateGroundStation(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateGroundStationService(svc, w, r)
	}
}

// @Summary Save the active ground station's coordinates
// @Description Moves the active station. A station is created and activated if none exists yet.
// @Tags ground station
// @Accept json
// @Produce json
// @Param station body models.GroundStationRequest true "Coordinates"
// @Success 200 {object} models.GroundStation
// @Success 201 {object} models.GroundStation
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /setGS/ [post]
// @Router /setGS/ [put]
func SetGroundStation(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.SetGroundStationService(svc, w, r)
	}
}
