package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")
var ErrWrongTokenType = errors.New("wrong token type")

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	jwt.StandardClaims
	Username  string   `json:"preferred_username"`
	Roles     []string `json:"roles"`
	TokenType string   `json:"token_type"`
}

// HasRole checks if the token holder has a specific role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Issuer signs and verifies HS256 tokens for the ground station.
type Issuer struct {
	name       string
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(name, secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, errors.New("signing secret must be at least 16 characters")
	}
	return &Issuer{
		name:       name,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair returns a new access and refresh token for the user.
func (i *Issuer) IssuePair(username string, roles []string) (access, refresh string, err error) {
	access, err = i.sign(username, roles, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.sign(username, roles, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (i *Issuer) Refresh(refresh string) (string, error) {
	claims, err := i.Verify(refresh, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return i.sign(claims.Username, claims.Roles, TokenTypeAccess, i.accessTTL)
}

// ParseClaims verifies an access token and returns its claims.
func (i *Issuer) ParseClaims(token string) (Claims, error) {
	return i.Verify(token, TokenTypeAccess)
}

// Verify checks the signature, expiry, issuer and token type.
func (i *Issuer) Verify(token, tokenType string) (Claims, error) {
	claims := Claims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return claims, fmt.Errorf("%w: %v", ErrInvalidJWT, err)
	}
	if t == nil || !t.Valid {
		return claims, ErrInvalidJWT
	}
	if !claims.VerifyIssuer(i.name, true) || claims.Username == "" {
		return claims, ErrInvalidClaims
	}
	if claims.TokenType != tokenType {
		return claims, ErrWrongTokenType
	}
	return claims, nil
}

func (i *Issuer) sign(username string, roles []string, tokenType string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    i.name,
			Subject:   username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Username:  username,
		Roles:     roles,
		TokenType: tokenType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
