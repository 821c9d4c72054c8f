package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary List downlinked images
// @Tags images
// @Produce json
// @Param satellite query string false "Satellite ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /images/ [get]
func ListImages(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListImagesService(svc, w, r)
	}
}

// @Summary Upload a downlinked image
// @Tags images
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Param satelliteId formData string false "Satellite ID"
// @Param capturedAt formData string false "Capture time (RFC 3339)"
// @Param latitude formData number false "Capture latitude"
// @Param longitude formData number false "Capture longitude"
// @Success 201 {object} models.Image
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 413 {object} models.Response
// @Failure 415 {object} models.Response
// @Failure 502 {object} models.Response
// @Security BearerAuth
// @Router /images/ [post]
func UploadImage(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.UploadImageService(svc, w, r)
	}
}

// @Summary Download an image
// @Tags images
// @Produce image/png
// @Produce image/jpeg
// @Param image-id path string true "Image ID"
// @Success 200 {file} file
// @Failure 400 {object} models.Response
// @Failure 404 {object} models.Response
// @Router /images/{image-id}/ [get]
func GetImage(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetImageService(svc, w, r)
	}
}
