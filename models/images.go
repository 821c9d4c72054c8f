package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is the metadata of a downlinked image stored in the object store.
type Image struct {
	ID          uuid.UUID `json:"id"`
	SatelliteID string    `json:"satelliteId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	ObjectKey   string    `json:"objectKey"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CapturedAt  time.Time `json:"capturedAt"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidateLocation checks the optional capture location.
func (i *Image) ValidateLocation() error {
	return validateOptionalCoordinates(i.Latitude, i.Longitude)
}

// ImageFilter narrows an image listing.
type ImageFilter struct {
	SatelliteID string
	Limit       int
	Offset      int
}
