package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/AgroXSat/groundstation-services/api/middleware"
	"github.com/AgroXSat/groundstation-services/internal/authn"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxJSONBody = 1 << 20

// HTTPError carries the status code a failure should be reported with.
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func notFound(format string, args ...interface{}) error {
	return &HTTPError{Message: fmt.Sprintf(format, args...), Status: http.StatusNotFound}
}

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("Failed to encode response")
		}
	}
}

// HandleErrResponse writes a JSON error body, reporting postgres errors by their condition name.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	var pqErr *pq.Error
	var response models.Response

	if errors.As(err, &pqErr) {
		response = models.ErrorResponse(pqErr.Code.Name(), pqErr.Message)
	} else {
		response = models.ErrorResponse(http.StatusText(statusCode), err.Error())
	}

	WriteResponse(w, statusCode, response)
}

// handleError maps a service error to its HTTP status and logs it.
func handleError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := zerolog.Ctx(r.Context())

	var httpErr *HTTPError
	var validationErr *models.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		logger.Warn().Err(err).Msg(msg)
		HandleErrResponse(w, http.StatusBadRequest, err)
	case errors.As(err, &maxBytesErr):
		logger.Warn().Err(err).Msg(msg)
		HandleErrResponse(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
	case errors.As(err, &httpErr):
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(err).Msg(msg)
		} else {
			logger.Warn().Err(err).Msg(msg)
		}
		HandleErrResponse(w, httpErr.Status, err)
	default:
		logger.Error().Err(err).Msg(msg)
		HandleErrResponse(w, http.StatusInternalServerError, err)
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &models.ValidationError{Reason: "request body is empty"}
		}
		return &models.ValidationError{Reason: "invalid request payload: " + err.Error()}
	}
	return nil
}

// claimsFromContext returns the claims placed by the JWT middleware.
func claimsFromContext(r *http.Request) (authn.Claims, bool) {
	claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
	return claims, ok
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, models.NewValidationError(name, "must be a non-negative integer")
	}
	return v, nil
}

// queryTime accepts RFC 3339 timestamps or a duration relative to now ("24h").
func queryTime(r *http.Request, name string, now time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	return time.Time{}, models.NewValidationError(name, "must be an RFC 3339 timestamp or a duration")
}
