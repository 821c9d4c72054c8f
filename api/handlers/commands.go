package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Issue a command to the satellite
// @Description The command is stored and published to the uplink topic. Requires the operator role.
// @Tags commands
// @Accept json
// @Produce json
// @Param command body models.CommandRequest true "Command"
// @Success 201 {object} models.Command
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 403 {object} models.Response
// @Failure 503 {object} models.Response
// @Security BearerAuth
// @Router /command/ [post]
func IssueCommand(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.IssueCommandService(svc, w, r)
	}
}

// @Summary List commands
// @Tags commands
// @Produce json
// @Param status query string false "Filter by status" Enums(sent, acknowledged, failed, expired)
// @Param limit query int false "Maximum number of commands" default(50)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /command/ [get]
func ListCommands(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListCommandsService(svc, w, r)
	}
}

// @Summary Get a command
// @Tags commands
// @Produce json
// @Param command-id path string true "Command ID"
// @Success 200 {object} models.Command
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /command/{command-id}/ [get]
func GetCommand(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetCommandService(svc, w, r)
	}
}
