package services

import (
	"context"
	"time"

	"github.com/AgroXSat/groundstation-services/db"
	"github.com/AgroXSat/groundstation-services/internal/alerts"
	"github.com/AgroXSat/groundstation-services/internal/appconfig"
	"github.com/AgroXSat/groundstation-services/internal/authn"
	"github.com/AgroXSat/groundstation-services/internal/cache"
	"github.com/AgroXSat/groundstation-services/internal/events"
	"github.com/AgroXSat/groundstation-services/internal/storage"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
)

// StationDB is the persistence used by the services. *db.StationDB implements it.
type StationDB interface {
	Ping(ctx context.Context) error

	GetActiveGroundStation(ctx context.Context) (*models.GroundStation, error)
	GetGroundStation(ctx context.Context, id uuid.UUID) (*models.GroundStation, error)
	ListGroundStations(ctx context.Context) ([]models.GroundStation, error)
	CreateGroundStation(ctx context.Context, gs models.GroundStation) (*models.GroundStation, error)
	SaveActiveGroundStation(ctx context.Context, req *models.GroundStationRequest) (*models.GroundStation, bool, error)

	InsertPosition(ctx context.Context, p models.SatellitePosition) (*models.SatellitePosition, error)
	GetLatestPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error)
	GetTrack(ctx context.Context, satelliteID string, limit int) ([]models.SatellitePosition, error)

	InsertImage(ctx context.Context, img models.Image) (*models.Image, error)
	GetImage(ctx context.Context, id uuid.UUID) (*models.Image, error)
	ListImages(ctx context.Context, filter models.ImageFilter) ([]models.Image, error)

	CreateCommand(ctx context.Context, cmd *models.Command) (db.Tx, error)
	GetCommand(ctx context.Context, id uuid.UUID) (*models.Command, error)
	ListCommands(ctx context.Context, status string, limit int) ([]models.Command, error)
	ListPendingCommands(ctx context.Context, before time.Time) ([]models.Command, error)
	AckCommand(ctx context.Context, ack models.CommandAck) (*models.Command, error)
	ExpireCommands(ctx context.Context, before time.Time) (int64, error)

	InsertTelemetry(ctx context.Context, t models.Telemetry) (*models.Telemetry, error)
	ListTelemetry(ctx context.Context, since time.Time, limit int) ([]models.Telemetry, error)
	PruneTelemetry(ctx context.Context, before time.Time) (int64, error)

	InsertPayload(ctx context.Context, p models.Payload) (*models.Payload, error)
	ListPayloads(ctx context.Context, filter models.PayloadFilter) ([]models.Payload, error)

	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, roles []string) (*models.User, error)
}

// AlertNotifier sends telemetry alerts. *alerts.Notifier implements it.
type AlertNotifier interface {
	Notify(ctx context.Context, a []alerts.Alert) (int, error)
}

// Service contains all shared dependencies for handlers and the downlink consumer.
type Service struct {
	Config    *appconfig.Config
	DB        StationDB
	Cache     cache.LocationCache
	Publisher events.CommandPublisher
	Objects   storage.ObjectStore
	Alerts    AlertNotifier
	Tokens    *authn.Issuer
	Now       func() time.Time
}

func (svc *Service) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func (svc *Service) satelliteID() string {
	return svc.Config.Satellite.ID
}
