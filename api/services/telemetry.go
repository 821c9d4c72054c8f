package services

import (
	"context"
	"net/http"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/alerts"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecordTelemetry stores a frame and e-mails operators about threshold
// breaches. A failed alert never fails the ingestion.
func (svc *Service) RecordTelemetry(ctx context.Context, t models.Telemetry) (*models.Telemetry, error) {
	if err := t.Validate(svc.satelliteID(), svc.now()); err != nil {
		return nil, err
	}

	saved, err := svc.DB.InsertTelemetry(ctx, t)
	if err != nil {
		return nil, err
	}

	if svc.Alerts != nil {
		if breaches := alerts.Evaluate(svc.Config.Alerts, *saved); len(breaches) > 0 {
			if _, err := svc.Alerts.Notify(ctx, breaches); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send telemetry alert")
			}
		}
	}
	return saved, nil
}

// PruneTelemetry deletes frames recorded before the retention window.
func (svc *Service) PruneTelemetry(ctx context.Context, before time.Time) (int64, error) {
	return svc.DB.PruneTelemetry(ctx, before)
}

// RecordTelemetryService ingests a telemetry frame.
func RecordTelemetryService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var frame models.Telemetry
	if err := decodeJSON(w, r, &frame); err != nil {
		handleError(w, r, err, "Invalid request payload")
		return
	}
	frame.ID = uuid.Nil

	saved, err := svc.RecordTelemetry(r.Context(), frame)
	if err != nil {
		handleError(w, r, err, "Failed to record telemetry")
		return
	}

	logger.Debug().Str("telemetry_id", saved.ID.String()).Float64("battery_voltage", saved.BatteryVoltage).Msg("Telemetry recorded")
	WriteResponse(w, http.StatusCreated, saved)
}

// ListTelemetryService returns recent frames.
func ListTelemetryService(svc *Service, w http.ResponseWriter, r *http.Request) {
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

	frames, err := svc.DB.ListTelemetry(r.Context(), since, limit)
	if err != nil {
		handleError(w, r, err, "Database error retrieving telemetry")
		return
	}
	if frames == nil {
		frames = []models.Telemetry{}
	}
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(frames), Items: frames})
}
