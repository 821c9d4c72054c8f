package cache

import (
	"context"
	"testing"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestPosition_NewerReplacesOlder(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := c.GetPosition(ctx, "agrosat-1")
	assert.ErrorIs(t, err, ErrMiss)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := models.SatellitePosition{ID: uuid.New(), SatelliteID: "agrosat-1", Latitude: 1, Longitude: 2, RecordedAt: base}

	updated, err := c.SetPositionIfNewer(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated)

	older := first
	older.ID = uuid.New()
	older.Latitude = 50
	older.RecordedAt = base.Add(-time.Minute)
	updated, err = c.SetPositionIfNewer(ctx, older)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := c.GetPosition(ctx, "agrosat-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	newer := first
	newer.ID = uuid.New()
	newer.RecordedAt = base.Add(time.Minute)
	updated, err = c.SetPositionIfNewer(ctx, newer)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err = c.GetPosition(ctx, "agrosat-1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestPosition_Expires(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := c.SetPositionIfNewer(ctx, models.SatellitePosition{SatelliteID: "agrosat-1", RecordedAt: time.Now()})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = c.GetPosition(ctx, "agrosat-1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStation(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	gs := models.GroundStation{ID: uuid.New(), Name: "nairobi", Latitude: -1.29, Longitude: 36.82, Active: true}
	require.NoError(t, c.SetStation(ctx, gs))

	got, err := c.GetStation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gs.ID, got.ID)
	assert.Equal(t, gs.Latitude, got.Latitude)

	require.NoError(t, c.InvalidateStation(ctx))
	_, err = c.GetStation(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNoop(t *testing.T) {
	var c LocationCache = Noop{}
	ctx := context.Background()

	updated, err := c.SetPositionIfNewer(ctx, models.SatellitePosition{})
	assert.NoError(t, err)
	assert.False(t, updated)

	_, err = c.GetPosition(ctx, "x")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.GetStation(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}
