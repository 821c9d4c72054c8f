package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/storage"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	imageFormField    = "image"
	multipartMemory   = 8 << 20
	multipartOverhead = 1 << 20
	sniffLen          = 512
)

// ImageUpload is a validated image waiting to be stored.
type ImageUpload struct {
	Image models.Image
	Body  io.ReadSeeker
}

// StoreImage uploads the object and records its metadata. The object is
// removed again if the metadata cannot be saved.
func (svc *Service) StoreImage(ctx context.Context, upload ImageUpload) (*models.Image, error) {
	logger := zerolog.Ctx(ctx)
	img := upload.Image

	if err := svc.Objects.Put(ctx, img.ObjectKey, img.ContentType, upload.Body, img.Size); err != nil {
		return nil, &HTTPError{Message: "failed to store image: " + err.Error(), Status: http.StatusBadGateway}
	}

	saved, err := svc.DB.InsertImage(ctx, img)
	if err != nil {
		if delErr := svc.Objects.Delete(ctx, img.ObjectKey); delErr != nil {
			logger.Error().Err(delErr).Str("object_key", img.ObjectKey).Msg("Failed to remove orphaned image object")
		}
		return nil, err
	}
	return saved, nil
}

// parseImageUpload reads the multipart form and sniffs the file's content type.
func (svc *Service) parseImageUpload(w http.ResponseWriter, r *http.Request) (*ImageUpload, func(), error) {
	maxSize := svc.Config.AWS.S3.MaxUploadSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, err
		}
		return nil, nil, models.NewValidationError(imageFormField, "expected a multipart form: %v", err)
	}

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, nil, models.NewValidationError(imageFormField, "file is required")
	}
	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}

	upload, err := svc.buildUpload(r, file, header, maxSize)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return upload, cleanup, nil
}

func (svc *Service) buildUpload(r *http.Request, file multipart.File, header *multipart.FileHeader, maxSize int64) (*ImageUpload, error) {
	if header.Size > maxSize {
		return nil, &HTTPError{Message: fmt.Sprintf("image exceeds %d bytes", maxSize), Status: http.StatusRequestEntityTooLarge}
	}
	if header.Size == 0 {
		return nil, models.NewValidationError(imageFormField, "file is empty")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &HTTPError{Message: "unsupported media type " + contentType, Status: http.StatusUnsupportedMediaType}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	img := models.Image{
		ID:          uuid.New(),
		SatelliteID: r.FormValue("satelliteId"),
		FileName:    path.Base(header.Filename),
		ContentType: contentType,
		Size:        header.Size,
		CapturedAt:  svc.now().UTC(),
	}
	if img.SatelliteID == "" {
		img.SatelliteID = svc.satelliteID()
	}
	if err := models.ValidateSatelliteID(img.SatelliteID); err != nil {
		return nil, err
	}
	if raw := r.FormValue("capturedAt"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, models.NewValidationError("capturedAt", "must be an RFC 3339 timestamp")
		}
		if t.After(svc.now().Add(models.MaxClockSkew)) {
			return nil, models.NewValidationError("capturedAt", "is in the future")
		}
		img.CapturedAt = t.UTC()
	}
	if img.Latitude, err = formFloat(r, "latitude"); err != nil {
		return nil, err
	}
	if img.Longitude, err = formFloat(r, "longitude"); err != nil {
		return nil, err
	}
	if err := img.ValidateLocation(); err != nil {
		return nil, err
	}
	if claims, ok := claimsFromContext(r); ok {
		img.UploadedBy = claims.Username
	}
	img.ObjectKey = storage.ImageKey(img.SatelliteID, img.ID, img.CapturedAt, img.FileName, contentType)

	return &ImageUpload{Image: img, Body: file}, nil
}

func formFloat(r *http.Request, name string) (*float64, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, models.NewValidationError(name, "must be a number")
	}
	return &v, nil
}

// UploadImageService accepts a downlinked image as multipart form field "image".
func UploadImageService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	upload, cleanup, err := svc.parseImageUpload(w, r)
	if err != nil {
		handleError(w, r, err, "Invalid image upload")
		return
	}
	defer cleanup()

	img, err := svc.StoreImage(r.Context(), *upload)
	if err != nil {
		handleError(w, r, err, "Failed to store image")
		return
	}

	logger.Info().Str("image_id", img.ID.String()).Str("object_key", img.ObjectKey).Int64("size", img.Size).Msg("Image stored")
	WriteResponse(w, http.StatusCreated, img, path.Join(r.URL.Path, img.ID.String())+"/")
}

// ListImagesService returns image metadata, newest first.
func ListImagesService(svc *Service, w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err, "Invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		handleError(w, r, err, "Invalid offset")
		return
	}

	images, err := svc.DB.ListImages(r.Context(), models.ImageFilter{
		SatelliteID: r.URL.Query().Get("satellite"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		handleError(w, r, err, "Database error retrieving images")
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	WriteResponse(w, http.StatusOK, models.ListResponse{Count: len(images), Items: images})
}

// GetImageService streams a stored image.
func GetImageService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["image-id"])
	if err != nil {
		handleError(w, r, models.NewValidationError("id", "must be a UUID"), "Invalid image ID")
		return
	}

	img, err := svc.DB.GetImage(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Database error retrieving image")
		return
	}
	if img == nil {
		handleError(w, r, notFound("image %s does not exist", id), "Image not found")
		return
	}

	body, err := svc.Objects.Get(r.Context(), img.ObjectKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		handleError(w, r, notFound("image %s has no stored object", id), "Image object missing")
		return
	}
	if err != nil {
		handleError(w, r, err, "Failed to download image")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.Error().Err(err).Str("image_id", id.String()).Msg("Failed to stream image")
	}
}
