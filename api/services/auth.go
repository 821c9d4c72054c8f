package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/AgroXSat/groundstation-services/internal/authn"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/rs/zerolog"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Login checks the password and issues an access and refresh token.
func (svc *Service) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := svc.DB.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// An empty hash still costs a full bcrypt comparison
	hash := ""
	var roles []string
	if user != nil {
		hash = user.PasswordHash
		roles = user.Roles
	}
	if err := authn.CheckPassword(hash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := svc.Tokens.IssuePair(user.Username, roles)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// CreateUser hashes the password and stores a new account.
func (svc *Service) CreateUser(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	if username == "" {
		return nil, models.NewValidationError("username", "is required")
	}
	hash, err := authn.HashPassword(password)
	if err != nil {
		return nil, models.NewValidationError("password", "%v", err)
	}
	return svc.DB.CreateUser(ctx, username, hash, roles)
}

// LoginService exchanges a username and password for a token pair.
func LoginService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteResponse(w, http.StatusBadRequest, models.AuthError{Error: "Username and password are required"})
		return
	}

	tokens, err := svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		logger.Warn().Str("user", req.Username).Msg("Failed login attempt")
		WriteResponse(w, http.StatusUnauthorized, models.AuthError{Error: "Invalid credentials"})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Login failed")
		WriteResponse(w, http.StatusInternalServerError, models.AuthError{Error: "Login failed"})
		return
	}

	logger.Info().Str("user", req.Username).Msg("User logged in")
	WriteResponse(w, http.StatusOK, tokens)
}

// RefreshTokenService issues a new access token for a valid refresh token.
func RefreshTokenService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Refresh == "" {
		WriteResponse(w, http.StatusBadRequest, models.AuthError{Error: "Refresh token is required"})
		return
	}

	access, err := svc.Tokens.Refresh(req.Refresh)
	if err != nil {
		logger.Warn().Err(err).Msg("Refresh token rejected")
		WriteResponse(w, http.StatusUnauthorized, models.AuthError{Error: "Invalid refresh token"})
		return
	}
	WriteResponse(w, http.StatusOK, models.TokenPair{Access: access})
}

// HealthService reports whether the database is reachable.
func HealthService(svc *Service, w http.ResponseWriter, r *http.Request) {
	if err := svc.DB.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
		WriteResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	WriteResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
