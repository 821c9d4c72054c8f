// Package cache keeps the most recent satellite fix and the active ground
// station in redis so that the tracking map does not hit postgres on every poll.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/redis/go-redis/v9"
)

const (
	positionKeyPrefix = "gs:position:" // gs:position:{satellite_id}
	stationKey        = "gs:station:active"
	maxWatchRetries   = 5
)

var ErrMiss = errors.New("cache miss")

// LocationCache is the read-through cache used by the services layer.
type LocationCache interface {
	GetPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error)
	SetPositionIfNewer(ctx context.Context, pos models.SatellitePosition) (bool, error)
	GetStation(ctx context.Context) (*models.GroundStation, error)
	SetStation(ctx context.Context, gs models.GroundStation) error
	InvalidateStation(ctx context.Context) error
}

// RedisCache implements LocationCache on a redis client.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisCache) positionKey(satelliteID string) string {
	return positionKeyPrefix + satelliteID
}

func (c *RedisCache) GetPosition(ctx context.Context, satelliteID string) (*models.SatellitePosition, error) {
	var pos models.SatellitePosition
	if err := c.getJSON(ctx, c.positionKey(satelliteID), &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

// SetPositionIfNewer stores pos unless the cached fix was recorded later.
// The compare and set runs under WATCH so concurrent writers cannot regress the cache.
func (c *RedisCache) SetPositionIfNewer(ctx context.Context, pos models.SatellitePosition) (bool, error) {
	key := c.positionKey(pos.SatelliteID)
	data, err := json.Marshal(pos)
	if err != nil {
		return false, fmt.Errorf("failed to marshal position: %w", err)
	}

	updated := false
	txf := func(tx *redis.Tx) error {
		updated = false
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			var cached models.SatellitePosition
			if json.Unmarshal(current, &cached) == nil && cached.RecordedAt.After(pos.RecordedAt) {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		if err == nil {
			updated = true
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err = c.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if err != redis.TxFailedErr {
			return false, fmt.Errorf("failed to cache position: %w", err)
		}
	}
	return false, fmt.Errorf("failed to cache position: %w", err)
}

func (c *RedisCache) GetStation(ctx context.Context) (*models.GroundStation, error) {
	var gs models.GroundStation
	if err := c.getJSON(ctx, stationKey, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (c *RedisCache) SetStation(ctx context.Context, gs models.GroundStation) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal ground station: %w", err)
	}
	if err := c.client.Set(ctx, stationKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ground station: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateStation(ctx context.Context) error {
	if err := c.client.Del(ctx, stationKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ground station: %w", err)
	}
	return nil
}

func (c *RedisCache) getJSON(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Noop is used when no redis address is configured. Every read misses.
type Noop struct{}

func (Noop) GetPosition(context.Context, string) (*models.SatellitePosition, error) {
	return nil, ErrMiss
}

func (Noop) SetPositionIfNewer(context.Context, models.SatellitePosition) (bool, error) {
	return false, nil
}

func (Noop) GetStation(context.Context) (*models.GroundStation, error) { return nil, ErrMiss }

func (Noop) SetStation(context.Context, models.GroundStation) error { return nil }

func (Noop) InvalidateStation(context.Context) error { return nil }
