package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
)

const groundStationColumns = `id, name, latitude, longitude, altitude, coverage_radius, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGroundStation(row rowScanner) (*models.GroundStation, error) {
	var gs models.GroundStation
	if err := row.Scan(&gs.ID, &gs.Name, &gs.Latitude, &gs.Longitude, &gs.Altitude,
		&gs.CoverageRadius, &gs.Active, &gs.CreatedAt, &gs.UpdatedAt); err != nil {
		return nil, err
	}
	return &gs, nil
}

// GetActiveGroundStation returns the active station, or nil if none is set.
func (s *StationDB) GetActiveGroundStation(ctx context.Context) (*models.GroundStation, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+groundStationColumns+` FROM ground_stations WHERE active LIMIT 1`)
	gs, err := scanGroundStation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving active ground station: %w", err)
	}
	return gs, nil
}

// GetGroundStation returns the station, or nil if it does not exist.
func (s *StationDB) GetGroundStation(ctx context.Context, id uuid.UUID) (*models.GroundStation, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+groundStationColumns+` FROM ground_stations WHERE id = $1`, id)
	gs, err := scanGroundStation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving ground station: %w", err)
	}
	return gs, nil
}

// ListGroundStations returns every registered station, newest first.
func (s *StationDB) ListGroundStations(ctx context.Context) ([]models.GroundStation, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+groundStationColumns+` FROM ground_stations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving ground stations: %w", err)
	}
	defer rows.Close()

	var stations []models.GroundStation
	for rows.Next() {
		gs, err := scanGroundStation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ground station: %w", err)
		}
		stations = append(stations, *gs)
	}
	return stations, rows.Err()
}

// CreateGroundStation inserts a station. An active station replaces the current one.
func (s *StationDB) CreateGroundStation(ctx context.Context, gs models.GroundStation) (*models.GroundStation, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if gs.Active {
		if err := s.execQuery(ctx, tx, `UPDATE ground_stations SET active = FALSE, updated_at = NOW() WHERE active`); err != nil {
			return nil, fmt.Errorf("error deactivating ground stations: %w", err)
		}
	}

	gs.ID = uuid.New()
	row := tx.QueryRowContext(ctx, `
		INSERT INTO ground_stations (id, name, latitude, longitude, altitude, coverage_radius, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+groundStationColumns,
		gs.ID, gs.Name, gs.Latitude, gs.Longitude, gs.Altitude, gs.CoverageRadius, gs.Active)
	created, err := scanGroundStation(row)
	if err != nil {
		return nil, fmt.Errorf("error inserting ground station: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return created, nil
}

// SaveActiveGroundStation applies req to the active station, creating and
// activating one when none exists. Returns the station and whether it was created.
func (s *StationDB) SaveActiveGroundStation(ctx context.Context, req *models.GroundStationRequest) (*models.GroundStation, bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+groundStationColumns+` FROM ground_stations WHERE active LIMIT 1 FOR UPDATE`)
	current, err := scanGroundStation(row)
	if err != nil && err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("error locking active ground station: %w", err)
	}

	var saved *models.GroundStation
	created := current == nil
	if created {
		gs := req.ToGroundStation()
		gs.ID = uuid.New()
		row = tx.QueryRowContext(ctx, `
			INSERT INTO ground_stations (id, name, latitude, longitude, altitude, coverage_radius, active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			RETURNING `+groundStationColumns,
			gs.ID, gs.Name, gs.Latitude, gs.Longitude, gs.Altitude, gs.CoverageRadius)
	} else {
		req.Apply(current)
		row = tx.QueryRowContext(ctx, `
			UPDATE ground_stations
			SET name = $2, latitude = $3, longitude = $4, altitude = $5, coverage_radius = $6, updated_at = $7
			WHERE id = $1
			RETURNING `+groundStationColumns,
			current.ID, current.Name, current.Latitude, current.Longitude, current.Altitude, current.CoverageRadius, time.Now().UTC())
	}

	saved, err = scanGroundStation(row)
	if err != nil {
		return nil, false, fmt.Errorf("error saving ground station: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("error committing transaction: %w", err)
	}
	return saved, created, nil
}
