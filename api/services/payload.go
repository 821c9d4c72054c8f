package services

import (
	"context"
	"net/http"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecordPayload stores a science reading.
func (svc *Service) RecordPayload(ctx context.Context, p models.Payload) (*models.Payload, error) {
	if err := p.Validate(svc.satelliteID(), svc.now()); err != nil {
		return nil, err
	}
	return svc.DB.InsertPayload(ctx, p)
}

// RecordPayloadService ingests a payload reading.
func RecordPayloadService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var p models.Payload
	if err := decodeJSON(w, r, &p); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}
	p.ID = uuid.Nil

	saved, err := svc.RecordPayload(r.Context(), p)
	if err != nil {
		handleError(w, r, err, "Failed to record payload")
		return
	}

	logger.Info().Str("payload_id", saved.ID.String()).Str("kind", saved.Kind).Msg("Payload recorded")
	WriteResponse(w, http.StatusCreated, saved)
}

// ListPayloadsService returns payload readings filtered by kind and time.
func ListPayloadsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !models.IsValidKind(kind) {
		handleError(w, r, models.NewValidationError("kind", "must be a lowercase identifier"), "Invalid kind filter")
		return
	}
	since, err := queryTime(r, "since", svc.now())
	if err != nil {
		handleError(w, r, err, "Invalid since")
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		handleError(w, r, err, "Invalid limit")
		return
	}

	payloads, err := svc.DB.ListPayloads(r.Context(), models.PayloadFilter{Kind: kind, Since: since, Limit: limit})
	if err != nil {
		handleError(w, r, err, "Database error retrieving payloads")
		return
	}
	if payloads == nil {
		payloads = []models.Payload{}
	}
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(payloads), Items: payloads})
}
