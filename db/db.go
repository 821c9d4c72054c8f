package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("record not found")

// Tx is an open transaction handed back to the caller to commit once
// side effects outside the database have succeeded.
type Tx interface {
	Commit() error
	Rollback() error
}

type StationDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewStationDB opens and pings the database. An empty source falls back to DATABASE_URL.
func NewStationDB(driver, source string, log *zerolog.Logger) (*StationDB, error) {
	if source == "" {
		source = os.Getenv("DATABASE_URL")
	}
	if source == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if driver == "" {
		driver = "postgres"
	}

	// Open the database connection
	db, err := sql.Open(driver, source)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &StationDB{DB: db, Log: log}, nil
}

func (s *StationDB) Close() error {
	if err := s.DB.Close(); err != nil {
		return err
	}
	s.Log.Info().Msg("database connection closed")
	return nil
}

// Ping is used by the health endpoint.
func (s *StationDB) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Migrate applies the embedded goose migrations.
func (s *StationDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(s.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.Log.Info().Msg("Database migrations applied")
	return nil
}

func (s *StationDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {
	if s.DB == nil {
		return fmt.Errorf("database connection is not established")
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// nullFloat converts an optional value for a nullable column.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
