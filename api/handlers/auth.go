package handlers

import (
	"net/http"

	"github.com/AgroXSat/groundstation-services/api/services"
)

// @Summary Log in
// @Description Exchanges a username and password for an access and refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} models.AuthError
// @Failure 401 {object} models.AuthError
// @Router /login/ [post]
func Login(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.LoginService(svc, w, r)
	}
}

// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} models.AuthError
// @Failure 401 {object} models.AuthError
// @Router /token/refresh/ [post]
func RefreshToken(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.RefreshTokenService(svc, w, r)
	}
}

func Health(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.HealthService(svc, w, r)
	}
}
