package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AgroXSat/groundstation-services/models"
)

const positionColumns = `id, satellite_id, latitude, longitude, altitude, velocity, recorded_at, created_at`

func scanPosition(row rowScanner) (*models.SatellitePosition, error) {
	var p models.SatellitePosition
	var velocity sql.NullFloat64
	if err := row.Scan(&p.ID, &p.SatelliteID, &p.Latitude, &p.Longitude, &p.Altitude,
		&velocity, &p.RecordedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Velocity = floatPtr(velocity)
	return &p, nil
}

func (s *StationDB) InsertPosition(ctx context.Context, p models.SatellitePosition) (*models.SatellitePosition, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO satellite_positions (id, satellite_id, latitude, longitude, altitude, velocity, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+positionColumns,
		p.ID, p.SatelliteID, p.Latitude, p.Longitude, p.Altitude, nullFloat(p.Velocity), p.RecordedAt)
	saved, err := scanPosition(row)
	if err != nil {
		return nil, fmt.Errorf("error inserting satellite position: %w", err)
	}
	return saved, nil
}

// GetLatestPosition returns the most recently recorded fix, or nil if there is none.
func (s *StationDB) GetLatestPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+positionColumns+` FROM satellite_positions
		WHERE satellite_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`, satelliteID)
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving latest position: %w", err)
	}
	return p, nil
}

// GetTrack returns recent fixes, newest first.
func (s *StationDB) GetTrack(ctx context.Context, satelliteID string, limit int) ([]models.SatellitePosition, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+positionColumns+` FROM satellite_positions
		WHERE satellite_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, satelliteID, clampLimit(limit, 100, 1000))
	if err != nil {
		return nil, fmt.Errorf("error retrieving track: %w", err)
	}
	defer rows.Close()

	var track []models.SatellitePosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning position: %w", err)
		}
		track = append(track, *p)
	}
	return track, rows.Err()
}
