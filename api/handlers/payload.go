package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Ingest a payload reading
// @Tags payload
// @Accept json
// @Produce json
// @Param payload body models.Payload true "Payload reading"
// @Success 201 {object} models.Payload
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Security BearerAuth
// @Router /payload/ [post]
func RecordPayload(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RecordPayloadService(svc, w, r)
	}
}

// @Summary List payload readings
// @Tags payload
// @Produce json
// @Param kind query string false "Payload kind, e.g. ndvi"
// @Param since query string false "RFC 3339 timestamp or duration such as 24h"
// @Param limit query int false "Maximum number of readings" default(100)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /payload/ [get]
func ListPayloads(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListPayloadsService(svc, w, r)
	}
}
