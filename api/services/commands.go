package services

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/AgroXSat/groundstation-services/db"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

var validCommandStatuses = map[string]bool{
	"":                               true,
	models.CommandStatusSent:         true,
	models.CommandStatusAcknowledged: true,
	models.CommandStatusFailed:       true,
	models.CommandStatusExpired:      true,
}

// IssueCommand stores and uplinks a command. The row is only committed once
// the command has been published, so a failed publish leaves no trace.
func (svc *Service) IssueCommand(ctx context.Context, req models.CommandRequest, issuedBy string) (*models.Command, error) {
	logger := zerolog.Ctx(ctx)

	if err := req.Validate(svc.Config.Commands.Allowed); err != nil {
		return nil, err
	}

	cmd := models.Command{
		SatelliteID: req.SatelliteID,
		Name:        req.Name,
		Params:      req.Params,
		IssuedBy:    issuedBy,
	}
	if cmd.SatelliteID == "" {
		cmd.SatelliteID = svc.satelliteID()
	}
	if err := models.ValidateSatelliteID(cmd.SatelliteID); err != nil {
		return nil, err
	}

	tx, err := svc.DB.CreateCommand(ctx, &cmd)
	if err != nil {
		return nil, err
	}

	if err := svc.Publisher.PublishCommand(ctx, cmd); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to roll back command")
		}
		return nil, &HTTPError{Message: "uplink unavailable: " + err.Error(), Status: http.StatusServiceUnavailable}
	}

	if err := tx.Commit(); err != nil {
		logger.Error().Err(err).Str("command_id", cmd.ID.String()).Msg("Command published but not committed")
		return nil, err
	}
	return &cmd, nil
}

// RecordCommandAck applies the satellite's answer to a command. Acks for
// unknown or already settled commands are logged and dropped.
func (svc *Service) RecordCommandAck(ctx context.Context, ack models.CommandAck) (*models.Command, error) {
	if err := ack.Validate(); err != nil {
		return nil, err
	}

	cmd, err := svc.DB.AckCommand(ctx, ack)
	if errors.Is(err, db.ErrNotFound) {
		zerolog.Ctx(ctx).Warn().Str("command_id", ack.CommandID.String()).Msg("Ignoring ack for unknown or settled command")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// ExpireCommands gives up on commands sent before the given time.
func (svc *Service) ExpireCommands(ctx context.Context, before time.Time) (int64, error) {
	return svc.DB.ExpireCommands(ctx, before)
}

// ResendPendingCommands republishes commands still waiting for an ack.
func (svc *Service) ResendPendingCommands(ctx context.Context, before time.Time) (int, error) {
	logger := zerolog.Ctx(ctx)

	pending, err := svc.DB.ListPendingCommands(ctx, before)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, cmd := range pending {
		if err := svc.Publisher.PublishCommand(ctx, cmd); err != nil {
			logger.Error().Err(err).Str("command_id", cmd.ID.String()).Msg("Failed to resend command")
			continue
		}
		logger.Info().Str("command_id", cmd.ID.String()).Str("command", cmd.Name).Msg("Command resent")
		sent++
	}
	return sent, nil
}

// IssueCommandService uplinks a command on behalf of the authenticated operator.
func IssueCommandService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFromContext(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		HandleErrResponse(w, http.StatusUnauthorized, errors.New("unauthorized: invalid claims"))
		return
	}

	var req models.CommandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}

	cmd, err := svc.IssueCommand(r.Context(), req, claims.Username)
	if err != nil {
		handleError(w, r, err, "Failed to issue command")
		return
	}

	logger.Info().Str("command_id", cmd.ID.String()).Str("command", cmd.Name).Str("user", claims.Username).Msg("Command issued")
	WriteResponse(w, http.StatusCreated, cmd, path.Join(r.URL.Path, cmd.ID.String())+"/")
}

// ListCommandsService returns recent commands, optionally filtered by status.
func ListCommandsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !validCommandStatuses[status] {
		handleError(w, r, models.NewValidationError("status", "unknown status %q", status), "Invalid status filter")
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err, "Invalid limit")
		return
	}

	commands, err := svc.DB.ListCommands(r.Context(), status, limit)
	if err != nil {
		handleError(w, r, err, "Database error retrieving commands")
		return
	}
	if commands == nil {
		commands = []models.Command{}
	}
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(commands), Items: commands})
}

// GetCommandService returns a single command and its acknowledgement state.
func GetCommandService(svc *Service, w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["command-id"])
	if err != nil {
		handleError(w, r, models.NewValidationError("id", "must be a UUID"), "Invalid command ID")
		return
	}

	cmd, err := svc.DB.GetCommand(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Database error retrieving command")
		return
	}
	if cmd == nil {
		handleError(w, r, notFound("command %s does not exist", id), "Command not found")
		return
	}
	WriteResponse(w, http.StatusOK, cmd)
}
