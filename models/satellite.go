package models

import (
	"time"

	"github.com/google/uuid"
)

// SatellitePosition is a single reported position fix.
type SatellitePosition struct {
	ID          uuid.UUID `json:"id"`
	SatelliteID string    `json:"satelliteId"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    float64   `json:"altitude"`
	Velocity    *float64  `json:"velocity,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PositionRequest is the body posted to the tracker endpoint and carried by downlink frames.
type PositionRequest struct {
	SatelliteID string    `json:"satelliteId"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Altitude    float64   `json:"altitude"`
	Velocity    *float64  `json:"velocity,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// ToPosition validates the request and returns the fix to store.
func (r *PositionRequest) ToPosition(defaultSatellite string, now time.Time) (SatellitePosition, error) {
	if r.Latitude == nil || r.Longitude == nil {
		return SatellitePosition{}, NewValidationError("latitude", "latitude and longitude are required")
	}
	if err := ValidateCoordinates(*r.Latitude, *r.Longitude); err != nil {
		return SatellitePosition{}, err
	}
	if r.Altitude < 0 {
		return SatellitePosition{}, NewValidationError("altitude", "must not be negative")
	}
	if r.Velocity != nil && *r.Velocity < 0 {
		return SatellitePosition{}, NewValidationError("velocity", "must not be negative")
	}
	recordedAt, err := resolveTimestamp("recordedAt", r.RecordedAt, now)
	if err != nil {
		return SatellitePosition{}, err
	}

	satID := r.SatelliteID
	if satID == "" {
		satID = defaultSatellite
	}
	if err := ValidateSatelliteID(satID); err != nil {
		return SatellitePosition{}, err
	}

	return SatellitePosition{
		ID:          uuid.New(),
		SatelliteID: satID,
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
		Altitude:    r.Altitude,
		Velocity:    r.Velocity,
		RecordedAt:  recordedAt,
	}, nil
}
