package db

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupStationDB starts a PostgreSQL container, runs the migrations and
// returns a connected StationDB.
func setupStationDB(t *testing.T) *StationDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { postgresC.Terminate(ctx) })

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
	logger := zerolog.Nop()

	// The port opens before postgres finishes its first start
	var stationDB *StationDB
	for i := 0; i < 20; i++ {
		stationDB, err = NewStationDB("postgres", connStr, &logger)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(func() { stationDB.Close() })

	require.NoError(t, stationDB.Migrate())
	return stationDB
}

func fp(f float64) *float64 { return &f }

func TestStationDB(t *testing.T) {
	stationDB := setupStationDB(t)
	ctx := context.Background()

	t.Run("ground stations", func(t *testing.T) {
		gs, err := stationDB.GetActiveGroundStation(ctx)
		require.NoError(t, err)
		assert.Nil(t, gs)

		saved, created, err := stationDB.SaveActiveGroundStation(ctx, &models.GroundStationRequest{
			Name: "nairobi", Latitude: fp(-1.29), Longitude: fp(36.82),
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, saved.Active)
		assert.Equal(t, float64(models.DefaultCoverageRadius), saved.CoverageRadius)

		moved, created, err := stationDB.SaveActiveGroundStation(ctx, &models.GroundStationRequest{
			Latitude: fp(-1.30), Longitude: fp(36.80), CoverageRadius: fp(2500),
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, saved.ID, moved.ID)
		assert.Equal(t, "nairobi", moved.Name)
		assert.Equal(t, 2500.0, moved.CoverageRadius)

		second, err := stationDB.CreateGroundStation(ctx, models.GroundStation{
			Name: "mombasa", Latitude: -4.04, Longitude: 39.67, CoverageRadius: 1000, Active: true,
		})
		require.NoError(t, err)

		active, err := stationDB.GetActiveGroundStation(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		all, err := stationDB.ListGroundStations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		got, err := stationDB.GetGroundStation(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "nairobi", got.Name)
		assert.False(t, got.Active)

		missing, err := stationDB.GetGroundStation(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("positions", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Second)
		for i := 0; i < 3; i++ {
			_, err := stationDB.InsertPosition(ctx, models.SatellitePosition{
				ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: float64(i), Longitude: float64(i),
				Altitude: 520, RecordedAt: base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}

		latest, err := stationDB.GetLatestPosition(ctx, "agrosat-1")
		require.NoError(t, err)
		assert.Equal(t, 2.0, latest.Latitude)
		assert.Nil(t, latest.Velocity)

		track, err := stationDB.GetTrack(ctx, "agrosat-1", 2)
		require.NoError(t, err)
		assert.Len(t, track, 2)

		none, err := stationDB.GetLatestPosition(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("commands", func(t *testing.T) {
		cmd := &models.Command{SatelliteID: "agrosat-1", Name: "ping", Params: json.RawMessage(`{}`), IssuedBy: "op"}
		tx, err := stationDB.CreateCommand(ctx, cmd)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		missing, err := stationDB.GetCommand(ctx, cmd.ID)
		require.NoError(t, err)
		assert.Nil(t, missing, "rolled back command must not be stored")

		tx, err = stationDB.CreateCommand(ctx, cmd)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		stored, err := stationDB.GetCommand(ctx, cmd.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CommandStatusSent, stored.Status)

		acked, err := stationDB.AckCommand(ctx, models.CommandAck{CommandID: cmd.ID, Status: models.CommandStatusAcknowledged, Response: "pong"})
		require.NoError(t, err)
		assert.Equal(t, "pong", acked.Response)
		assert.NotNil(t, acked.AckedAt)

		_, err = stationDB.AckCommand(ctx, models.CommandAck{CommandID: cmd.ID, Status: models.CommandStatusFailed})
		assert.ErrorIs(t, err, ErrNotFound)

		old := &models.Command{SatelliteID: "agrosat-1", Name: "reboot", Params: json.RawMessage(`{}`), IssuedBy: "op"}
		tx, err = stationDB.CreateCommand(ctx, old)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		pending, err := stationDB.ListPendingCommands(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		expired, err := stationDB.ExpireCommands(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), expired)

		list, err := stationDB.ListCommands(ctx, models.CommandStatusExpired, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "reboot", list[0].Name)
	})

	t.Run("telemetry and payloads", func(t *testing.T) {
		now := time.Now().UTC()
		_, err := stationDB.InsertTelemetry(ctx, models.Telemetry{
			ID: uuid.New(), SatelliteID: "agrosat-1", BatteryVoltage: 7.4, Temperature: 20, RecordedAt: now.Add(-48 * time.Hour),
		})
		require.NoError(t, err)
		_, err = stationDB.InsertTelemetry(ctx, models.Telemetry{
			ID: uuid.New(), SatelliteID: "agrosat-1", BatteryVoltage: 7.3, Temperature: 21, RecordedAt: now,
		})
		require.NoError(t, err)

		pruned, err := stationDB.PruneTelemetry(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), pruned)

		frames, err := stationDB.ListTelemetry(ctx, time.Time{}, 10)
		require.NoError(t, err)
		assert.Len(t, frames, 1)

		_, err = stationDB.InsertPayload(ctx, models.Payload{
			ID: uuid.New(), SatelliteID: "agrosat-1", Kind: "ndvi", Data: json.RawMessage(`{"mean": 0.62}`),
			Latitude: fp(-1.2), Longitude: fp(36.9), CapturedAt: now,
		})
		require.NoError(t, err)

		payloads, err := stationDB.ListPayloads(ctx, models.PayloadFilter{Kind: "ndvi"})
		require.NoError(t, err)
		require.Len(t, payloads, 1)
		assert.JSONEq(t, `{"mean": 0.62}`, string(payloads[0].Data))
		assert.Equal(t, -1.2, *payloads[0].Latitude)

		other, err := stationDB.ListPayloads(ctx, models.PayloadFilter{Kind: "soil_moisture"})
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("images and users", func(t *testing.T) {
		img, err := stationDB.InsertImage(ctx, models.Image{
			ID: uuid.New(), SatelliteID: "agrosat-1", FileName: "field.png", ContentType: "image/png",
			Size: 42, ObjectKey: "images/agrosat-1/field.png", CapturedAt: time.Now().UTC(), UploadedBy: "op",
		})
		require.NoError(t, err)

		got, err := stationDB.GetImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, "field.png", got.FileName)
		assert.Nil(t, got.Latitude)

		images, err := stationDB.ListImages(ctx, models.ImageFilter{SatelliteID: "agrosat-1"})
		require.NoError(t, err)
		assert.Len(t, images, 1)

		_, err = stationDB.CreateUser(ctx, "operator1", "hash", []string{models.RoleOperator})
		require.NoError(t, err)
		u, err := stationDB.GetUserByUsername(ctx, "operator1")
		require.NoError(t, err)
		assert.True(t, u.HasRole(models.RoleOperator))

		nobody, err := stationDB.GetUserByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, nobody)
	})
}
