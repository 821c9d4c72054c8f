package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
)

const telemetryColumns = `id, satellite_id, battery_voltage, temperature, solar_current, signal_strength, mode, recorded_at, received_at`
const payloadColumns = `id, satellite_id, kind, data, latitude, longitude, captured_at, received_at`

func (s *StationDB) InsertTelemetry(ctx context.Context, t models.Telemetry) (*models.Telemetry, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO telemetry (id, satellite_id, battery_voltage, temperature, solar_current, signal_strength, mode, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+telemetryColumns,
		t.ID, t.SatelliteID, t.BatteryVoltage, t.Temperature, t.SolarCurrent, t.SignalStrength, t.Mode, t.RecordedAt)
	saved, err := scanTelemetry(row)
	if err != nil {
		return nil, fmt.Errorf("error inserting telemetry: %w", err)
	}
	return saved, nil
}

func scanTelemetry(row rowScanner) (*models.Telemetry, error) {
	var t models.Telemetry
	if err := row.Scan(&t.ID, &t.SatelliteID, &t.BatteryVoltage, &t.Temperature, &t.SolarCurrent,
		&t.SignalStrength, &t.Mode, &t.RecordedAt, &t.ReceivedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTelemetry returns frames recorded after since, newest first.
func (s *StationDB) ListTelemetry(ctx context.Context, since time.Time, limit int) ([]models.Telemetry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+telemetryColumns+` FROM telemetry
		WHERE recorded_at >= $1
		ORDER BY recorded_at DESC
		LIMIT $2`, since, clampLimit(limit, 100, 1000))
	if err != nil {
		return nil, fmt.Errorf("error retrieving telemetry: %w", err)
	}
	defer rows.Close()

	var frames []models.Telemetry
	for rows.Next() {
		t, err := scanTelemetry(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning telemetry: %w", err)
		}
		frames = append(frames, *t)
	}
	return frames, rows.Err()
}

// PruneTelemetry deletes frames recorded before the given time.
func (s *StationDB) PruneTelemetry(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM telemetry WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error pruning telemetry: %w", err)
	}
	return res.RowsAffected()
}

func (s *StationDB) InsertPayload(ctx context.Context, p models.Payload) (*models.Payload, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO payloads (id, satellite_id, kind, data, latitude, longitude, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+payloadColumns,
		p.ID, p.SatelliteID, p.Kind, string(p.Data), nullFloat(p.Latitude), nullFloat(p.Longitude), p.CapturedAt)
	saved, err := scanPayload(row)
	if err != nil {
		return nil, fmt.Errorf("error inserting payload: %w", err)
	}
	return saved, nil
}

func scanPayload(row rowScanner) (*models.Payload, error) {
	var p models.Payload
	var data []byte
	var lat, lon sql.NullFloat64
	if err := row.Scan(&p.ID, &p.SatelliteID, &p.Kind, &data, &lat, &lon, &p.CapturedAt, &p.ReceivedAt); err != nil {
		return nil, err
	}
	p.Data = data
	p.Latitude = floatPtr(lat)
	p.Longitude = floatPtr(lon)
	return &p, nil
}

// ListPayloads returns payload readings, newest capture first.
func (s *StationDB) ListPayloads(ctx context.Context, filter models.PayloadFilter) ([]models.Payload, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+payloadColumns+` FROM payloads
		WHERE ($1 = '' OR kind = $1) AND captured_at >= $2
		ORDER BY captured_at DESC
		LIMIT $3`, filter.Kind, filter.Since, clampLimit(filter.Limit, 100, 1000))
	if err != nil {
		return nil, fmt.Errorf("error retrieving payloads: %w", err)
	}
	defer rows.Close()

	var payloads []models.Payload
	for rows.Next() {
		p, err := scanPayload(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payload: %w", err)
		}
		payloads = append(payloads, *p)
	}
	return payloads, rows.Err()
}
