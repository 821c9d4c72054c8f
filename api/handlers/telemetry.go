package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Ingest a telemetry frame
// @Description Threshold breaches are e-mailed to the operators.
// @Tags telemetry
// @Accept json
// @Produce json
// @Param frame body models.Telemetry true "Telemetry frame"
// @Success 201 {object} models.Telemetry
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /telemetry/ [post]
func RecordTelemetry(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RecordTelemetryService(svc, w, r)
	}
}

// @Summary List telemetry frames
// @Tags telemetry
// @Produce json
// @Param since query string false "RFC 3339 timestamp or duration such as 24h"
// @Param limit query int false "Maximum number of frames" default(100)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /telemetry/ [get]
func ListTelemetry(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListTelemetryService(svc, w, r)
	}
}
