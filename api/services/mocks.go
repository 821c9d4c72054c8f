package services

import (
	"context"
	"io"
	"time"

	"github.com/AgroXSat/groundstation-services/db"
	"github.com/AgroXSat/groundstation-services/internal/alerts"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockStationDB struct {
	mock.Mock
}

type MockCommandPublisher struct {
	mock.Mock
}

type MockObjectStore struct {
	mock.Mock
}

type MockAlertNotifier struct {
	mock.Mock
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

func (m *MockCommandPublisher) PublishCommand(ctx context.Context, cmd models.Command) error {
	return m.Called(cmd).Error(0)
}

func (m *MockCommandPublisher) Close() {
	m.Called()
}

func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	return m.Called(key, contentType, size).Error(0)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *MockAlertNotifier) Notify(ctx context.Context, a []alerts.Alert) (int, error) {
	args := m.Called(a)
	return args.Int(0), args.Error(1)
}

func (m *MockStationDB) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *MockStationDB) GetActiveGroundStation(ctx context.Context) (*models.GroundStation, error) {
	args := m.Called()
	gs, _ := args.Get(0).(*models.GroundStation)
	return gs, args.Error(1)
}

func (m *MockStationDB) GetGroundStation(ctx context.Context, id uuid.UUID) (*models.GroundStation, error) {
	args := m.Called(id)
	gs, _ := args.Get(0).(*models.GroundStation)
	return gs, args.Error(1)
}

func (m *MockStationDB) ListGroundStations(ctx context.Context) ([]models.GroundStation, error) {
	args := m.Called()
	stations, _ := args.Get(0).([]models.GroundStation)
	return stations, args.Error(1)
}

func (m *MockStationDB) CreateGroundStation(ctx context.Context, gs models.GroundStation) (*models.GroundStation, error) {
	args := m.Called(gs)
	created, _ := args.Get(0).(*models.GroundStation)
	return created, args.Error(1)
}

func (m *MockStationDB) SaveActiveGroundStation(ctx context.Context, req *models.GroundStationRequest) (*models.GroundStation, bool, error) {
	args := m.Called(req)
	gs, _ := args.Get(0).(*models.GroundStation)
	return gs, args.Bool(1), args.Error(2)
}

func (m *MockStationDB) InsertPosition(ctx context.Context, p models.SatellitePosition) (*models.SatellitePosition, error) {
	args := m.Called(p)
	saved, _ := args.Get(0).(*models.SatellitePosition)
	return saved, args.Error(1)
}

func (m *MockStationDB) GetLatestPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error) {
	args := m.Called(satelliteID)
	pos, _ := args.Get(0).(*models.SatellitePosition)
	return pos, args.Error(1)
}

func (m *MockStationDB) GetTrack(ctx context.Context, satelliteID string, limit int) ([]models.SatellitePosition, error) {
	args := m.Called(satelliteID, limit)
	track, _ := args.Get(0).([]models.SatellitePosition)
	return track, args.Error(1)
}

func (m *MockStationDB) InsertImage(ctx context.Context, img models.Image) (*models.Image, error) {
	args := m.Called(img)
	saved, _ := args.Get(0).(*models.Image)
	return saved, args.Error(1)
}

func (m *MockStationDB) GetImage(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	args := m.Called(id)
	img, _ := args.Get(0).(*models.Image)
	return img, args.Error(1)
}

func (m *MockStationDB) ListImages(ctx context.Context, filter models.ImageFilter) ([]models.Image, error) {
	args := m.Called(filter)
	images, _ := args.Get(0).([]models.Image)
	return images, args.Error(1)
}

func (m *MockStationDB) CreateCommand(ctx context.Context, cmd *models.Command) (db.Tx, error) {
	args := m.Called(cmd)
	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
		cmd.Status = models.CommandStatusSent
	}
	tx, _ := args.Get(0).(db.Tx)
	return tx, args.Error(1)
}

func (m *MockStationDB) GetCommand(ctx context.Context, id uuid.UUID) (*models.Command, error) {
	args := m.Called(id)
	cmd, _ := args.Get(0).(*models.Command)
	return cmd, args.Error(1)
}

func (m *MockStationDB) ListCommands(ctx context.Context, status string, limit int) ([]models.Command, error) {
	args := m.Called(status, limit)
	commands, _ := args.Get(0).([]models.Command)
	return commands, args.Error(1)
}

func (m *MockStationDB) ListPendingCommands(ctx context.Context, before time.Time) ([]models.Command, error) {
	args := m.Called(before)
	commands, _ := args.Get(0).([]models.Command)
	return commands, args.Error(1)
}

func (m *MockStationDB) AckCommand(ctx context.Context, ack models.CommandAck) (*models.Command, error) {
	args := m.Called(ack)
	cmd, _ := args.Get(0).(*models.Command)
	return cmd, args.Error(1)
}

func (m *MockStationDB) ExpireCommands(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStationDB) InsertTelemetry(ctx context.Context, t models.Telemetry) (*models.Telemetry, error) {
	args := m.Called(t)
	saved, _ := args.Get(0).(*models.Telemetry)
	return saved, args.Error(1)
}

func (m *MockStationDB) ListTelemetry(ctx context.Context, since time.Time, limit int) ([]models.Telemetry, error) {
	args := m.Called(since, limit)
	frames, _ := args.Get(0).([]models.Telemetry)
	return frames, args.Error(1)
}

func (m *MockStationDB) PruneTelemetry(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStationDB) InsertPayload(ctx context.Context, p models.Payload) (*models.Payload, error) {
	args := m.Called(p)
	saved, _ := args.Get(0).(*models.Payload)
	return saved, args.Error(1)
}

func (m *MockStationDB) ListPayloads(ctx context.Context, filter models.PayloadFilter) ([]models.Payload, error) {
	args := m.Called(filter)
	payloads, _ := args.Get(0).([]models.Payload)
	return payloads, args.Error(1)
}

func (m *MockStationDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockStationDB) CreateUser(ctx context.Context, username, passwordHash string, roles []string) (*models.User, error) {
	args := m.Called(username, passwordHash, roles)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
