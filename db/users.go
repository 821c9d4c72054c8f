package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

func (s *StationDB) CreateUser(ctx context.Context, username, passwordHash string, roles []string) (*models.User, error) {
	u := models.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash}
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING roles, created_at`,
		u.ID, username, passwordHash, pq.Array(roles)).Scan(pq.Array(&u.Roles), &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return &u, nil
}

// GetUserByUsername returns the user, or nil if no such user exists.
func (s *StationDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, roles, created_at FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, pq.Array(&u.Roles), &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &u, nil
}
