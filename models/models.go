package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ValidationError is returned when a request or downlink frame fails validation.
// Handlers map it to a 400 response and the downlink consumer acks it so it is not redelivered.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MaxSatelliteIDLength matches the satellite_id column width.
const MaxSatelliteIDLength = 64

// ValidateSatelliteID checks a satellite ID after defaulting.
func ValidateSatelliteID(id string) error {
	if id == "" {
		return NewValidationError("satelliteId", "is required")
	}
	if len(id) > MaxSatelliteIDLength {
		return NewValidationError("satelliteId", "must be at most %d characters", MaxSatelliteIDLength)
	}
	return nil
}

// MaxClockSkew is how far into the future a reported timestamp may be.
const MaxClockSkew = 5 * time.Minute

var kindRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// ValidateCoordinates checks latitude and longitude are within their WGS84 ranges.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return NewValidationError("latitude", "must be between -90 and 90, got %v", lat)
	}
	if lon < -180 || lon > 180 {
		return NewValidationError("longitude", "must be between -180 and 180, got %v", lon)
	}
	return nil
}

// validateOptionalCoordinates accepts a missing pair but not half of one.
func validateOptionalCoordinates(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return NewValidationError("latitude", "latitude and longitude must be provided together")
	}
	return ValidateCoordinates(*lat, *lon)
}

// resolveTimestamp defaults a zero timestamp to now and rejects ones too far ahead.
func resolveTimestamp(field string, ts time.Time, now time.Time) (time.Time, error) {
	if ts.IsZero() {
		return now.UTC(), nil
	}
	if ts.After(now.Add(MaxClockSkew)) {
		return ts, NewValidationError(field, "is in the future")
	}
	return ts.UTC(), nil
}

// IsValidKind checks a payload kind is a short lowercase identifier.
func IsValidKind(kind string) bool {
	return kindRegex.MatchString(kind)
}
