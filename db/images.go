package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
)

const imageColumns = `id, satellite_id, file_name, content_type, size, object_key, latitude, longitude, captured_at, uploaded_by, created_at`

func scanImage(row rowScanner) (*models.Image, error) {
	var img models.Image
	var lat, lon sql.NullFloat64
	if err := row.Scan(&img.ID, &img.SatelliteID, &img.FileName, &img.ContentType, &img.Size,
		&img.ObjectKey, &lat, &lon, &img.CapturedAt, &img.UploadedBy, &img.CreatedAt); err != nil {
		return nil, err
	}
	img.Latitude = floatPtr(lat)
	img.Longitude = floatPtr(lon)
	return &img, nil
}

func (s *StationDB) InsertImage(ctx context.Context, img models.Image) (*models.Image, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO images (id, satellite_id, file_name, content_type, size, object_key, latitude, longitude, captured_at, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+imageColumns,
		img.ID, img.SatelliteID, img.FileName, img.ContentType, img.Size, img.ObjectKey,
		nullFloat(img.Latitude), nullFloat(img.Longitude), img.CapturedAt, img.UploadedBy)
	saved, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("error inserting image: %w", err)
	}
	return saved, nil
}

// GetImage returns the image metadata, or nil if it does not exist.
func (s *StationDB) GetImage(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving image: %w", err)
	}
	return img, nil
}

// ListImages returns image metadata, newest capture first.
func (s *StationDB) ListImages(ctx context.Context, filter models.ImageFilter) ([]models.Image, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+imageColumns+` FROM images
		WHERE ($1 = '' OR satellite_id = $1)
		ORDER BY captured_at DESC
		LIMIT $2 OFFSET $3`,
		filter.SatelliteID, clampLimit(filter.Limit, 50, 500), max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("error retrieving images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning image: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}
