package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Telemetry is a housekeeping frame from the satellite.
type Telemetry struct {
	ID             uuid.UUID `json:"id"`
	SatelliteID    string    `json:"satelliteId"`
	BatteryVoltage float64   `json:"batteryVoltage"`
	Temperature    float64   `json:"temperature"`
	SolarCurrent   float64   `json:"solarCurrent"`
	SignalStrength float64   `json:"signalStrength"`
	Mode           string    `json:"mode"`
	RecordedAt     time.Time `json:"recordedAt"`
	ReceivedAt     time.Time `json:"receivedAt"`
}

// Validate checks the frame and fills in defaults.
func (t *Telemetry) Validate(defaultSatellite string, now time.Time) error {
	if t.BatteryVoltage < 0 {
		return NewValidationError("batteryVoltage", "must not be negative")
	}
	if t.Temperature < -273.15 {
		return NewValidationError("temperature", "is below absolute zero")
	}
	if len(t.Mode) > 64 {
		return NewValidationError("mode", "must be at most 64 characters")
	}
	recordedAt, err := resolveTimestamp("recordedAt", t.RecordedAt, now)
	if err != nil {
		return err
	}
	t.RecordedAt = recordedAt
	if t.SatelliteID == "" {
		t.SatelliteID = defaultSatellite
	}
	if err := ValidateSatelliteID(t.SatelliteID); err != nil {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Payload is a science reading from the agricultural payload (soil moisture, NDVI, ...).
type Payload struct {
	ID          uuid.UUID       `json:"id"`
	SatelliteID string          `json:"satelliteId"`
	Kind        string          `json:"kind"`
	Data        json.RawMessage `json:"data"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	CapturedAt  time.Time       `json:"capturedAt"`
	ReceivedAt  time.Time       `json:"receivedAt"`
}

// Validate checks the reading and fills in defaults.
func (p *Payload) Validate(defaultSatellite string, now time.Time) error {
	if !IsValidKind(p.Kind) {
		return NewValidationError("kind", "must be a lowercase identifier")
	}
	if !IsJSONObject(p.Data) {
		return NewValidationError("data", "must be a JSON object")
	}
	if err := validateOptionalCoordinates(p.Latitude, p.Longitude); err != nil {
		return err
	}
	capturedAt, err := resolveTimestamp("capturedAt", p.CapturedAt, now)
	if err != nil {
		return err
	}
	p.CapturedAt = capturedAt
	if p.SatelliteID == "" {
		p.SatelliteID = defaultSatellite
	}
	if err := ValidateSatelliteID(p.SatelliteID); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PayloadFilter narrows a payload listing.
type PayloadFilter struct {
	Kind  string
	Since time.Time
	Limit int
}
