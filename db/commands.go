package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
)

const commandColumns = `id, satellite_id, name, params, status, issued_by, response, created_at, updated_at, acked_at`

func scanCommand(row rowScanner) (*models.Command, error) {
	var c models.Command
	var params []byte
	var ackedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.SatelliteID, &c.Name, &params, &c.Status, &c.IssuedBy,
		&c.Response, &c.CreatedAt, &c.UpdatedAt, &ackedAt); err != nil {
		return nil, err
	}
	c.Params = params
	if ackedAt.Valid {
		c.AckedAt = &ackedAt.Time
	}
	return &c, nil
}

// CreateCommand inserts the command inside a transaction and returns it
// uncommitted. The caller commits once the command has been published.
func (s *StationDB) CreateCommand(ctx context.Context, cmd *models.Command) (Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	cmd.ID = uuid.New()
	cmd.Status = models.CommandStatusSent
	now := time.Now().UTC()
	cmd.CreatedAt = now
	cmd.UpdatedAt = now

	err = s.execQuery(ctx, tx, `
		INSERT INTO commands (id, satellite_id, name, params, status, issued_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cmd.ID, cmd.SatelliteID, cmd.Name, string(cmd.Params), cmd.Status, cmd.IssuedBy, cmd.CreatedAt, cmd.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error inserting command: %w", err)
	}

	return tx, nil
}

// GetCommand returns the command, or nil if it does not exist.
func (s *StationDB) GetCommand(ctx context.Context, id uuid.UUID) (*models.Command, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+commandColumns+` FROM commands WHERE id = $1`, id)
	c, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving command: %w", err)
	}
	return c, nil
}

// ListCommands returns commands, newest first, optionally filtered by status.
func (s *StationDB) ListCommands(ctx context.Context, status string, limit int) ([]models.Command, error) {
	return s.queryCommands(ctx, `
		SELECT `+commandColumns+` FROM commands
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2`, status, clampLimit(limit, 50, 500))
}

// ListPendingCommands returns commands still waiting for an ack that were issued before the given time.
func (s *StationDB) ListPendingCommands(ctx context.Context, before time.Time) ([]models.Command, error) {
	return s.queryCommands(ctx, `
		SELECT `+commandColumns+` FROM commands
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at`, models.CommandStatusSent, before)
}

func (s *StationDB) queryCommands(ctx context.Context, query string, args ...interface{}) ([]models.Command, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving commands: %w", err)
	}
	defer rows.Close()

	var commands []models.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning command: %w", err)
		}
		commands = append(commands, *c)
	}
	return commands, rows.Err()
}

// AckCommand moves a sent command to its terminal status. It returns
// ErrNotFound when the command is unknown or no longer waiting for an ack.
func (s *StationDB) AckCommand(ctx context.Context, ack models.CommandAck) (*models.Command, error) {
	ackedAt := ack.Timestamp
	if ackedAt.IsZero() {
		ackedAt = time.Now().UTC()
	}
	row := s.DB.QueryRowContext(ctx, `
		UPDATE commands
		SET status = $2, response = $3, acked_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING `+commandColumns,
		ack.CommandID, ack.Status, ack.Response, ackedAt, models.CommandStatusSent)
	c, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error acknowledging command: %w", err)
	}
	return c, nil
}

// ExpireCommands marks sent commands issued before the given time as expired.
func (s *StationDB) ExpireCommands(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE commands SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3`,
		models.CommandStatusExpired, models.CommandStatusSent, before)
	if err != nil {
		return 0, fmt.Errorf("error expiring commands: %w", err)
	}
	return res.RowsAffected()
}
