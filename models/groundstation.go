package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCoverageRadius = 1000
	MinCoverageRadius     = 100
	MaxCoverageRadius     = 5000
)

// GroundStation is a receiving site. At most one is active at a time.
type GroundStation struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Altitude       float64   `json:"altitude"`
	CoverageRadius float64   `json:"coverageRadius"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// GroundStationRequest is the body accepted when registering or moving a station.
type GroundStationRequest struct {
	Name           string   `json:"name"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Altitude       *float64 `json:"altitude,omitempty"`
	CoverageRadius *float64 `json:"coverageRadius,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// Validate checks the request and fills in defaults.
func (r *GroundStationRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return NewValidationError("latitude", "latitude and longitude are required")
	}
	if err := ValidateCoordinates(*r.Latitude, *r.Longitude); err != nil {
		return err
	}
	if r.CoverageRadius != nil {
		if *r.CoverageRadius < MinCoverageRadius || *r.CoverageRadius > MaxCoverageRadius {
			return NewValidationError("coverageRadius", "must be between %d and %d metres", MinCoverageRadius, MaxCoverageRadius)
		}
	}
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) > 255 {
		return NewValidationError("name", "must be at most 255 characters")
	}
	return nil
}

// ToGroundStation builds a station from the request, applying defaults.
func (r *GroundStationRequest) ToGroundStation() GroundStation {
	gs := GroundStation{
		Name:           r.Name,
		Latitude:       *r.Latitude,
		Longitude:      *r.Longitude,
		CoverageRadius: DefaultCoverageRadius,
	}
	if gs.Name == "" {
		gs.Name = "ground-station"
	}
	if r.Altitude != nil {
		gs.Altitude = *r.Altitude
	}
	if r.CoverageRadius != nil {
		gs.CoverageRadius = *r.CoverageRadius
	}
	if r.Active != nil {
		gs.Active = *r.Active
	}
	return gs
}

// Apply copies the fields set on the request onto an existing station.
func (r *GroundStationRequest) Apply(gs *GroundStation) {
	gs.Latitude = *r.Latitude
	gs.Longitude = *r.Longitude
	if r.Name != "" {
		gs.Name = r.Name
	}
	if r.Altitude != nil {
		gs.Altitude = *r.Altitude
	}
	if r.CoverageRadius != nil {
		gs.CoverageRadius = *r.CoverageRadius
	}
}

// Coverage describes how far the satellite is from the active ground station.
type Coverage struct {
	Station        GroundStation     `json:"station"`
	Satellite      SatellitePosition `json:"satellite"`
	DistanceKm     float64           `json:"distanceKm"`
	CoverageRadius float64           `json:"coverageRadius"`
	WithinCoverage bool              `json:"withinCoverage"`
	Zoom           float64           `json:"zoom"`
}
