package authn

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer("groundstation-test", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestIssuePair_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	access, refresh, err := issuer.IssuePair("operator1", []string{"operator"})
	require.NoError(t, err)

	claims, err := issuer.ParseClaims(access)
	require.NoError(t, err)
	assert.Equal(t, "operator1", claims.Username)
	assert.True(t, claims.HasRole("operator"))
	assert.False(t, claims.HasRole("admin"))

	// A refresh token is not accepted where an access token is expected
	_, err = issuer.ParseClaims(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	newAccess, err := issuer.Refresh(refresh)
	require.NoError(t, err)
	_, err = issuer.ParseClaims(newAccess)
	assert.NoError(t, err)

	_, err = issuer.Refresh(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseClaims_Rejects(t *testing.T) {
	issuer := newTestIssuer(t)

	_, err := issuer.ParseClaims("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidJWT)

	other, err := NewIssuer("groundstation-test", "another-secret-another-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.IssuePair("mallory", nil)
	require.NoError(t, err)
	_, err = issuer.ParseClaims(foreign)
	assert.ErrorIs(t, err, ErrInvalidJWT)

	wrongIssuer, err := NewIssuer("someone-else", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	token, _, err := wrongIssuer.IssuePair("mallory", nil)
	require.NoError(t, err)
	_, err = issuer.ParseClaims(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "x", TokenType: TokenTypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.ParseClaims(unsigned)
	assert.Error(t, err)
}

func TestParseClaims_Expired(t *testing.T) {
	issuer := newTestIssuer(t)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	access, _, err := issuer.IssuePair("operator1", nil)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseClaims(access)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := NewIssuer("gs", "short", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrPasswordMismatch)
	assert.ErrorIs(t, CheckPassword("", "anything"), ErrPasswordMismatch)

	_, err = HashPassword("short")
	assert.Error(t, err)
}

func TestCheckPassword_UnknownUserCostsAFullComparison(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	hash, err := HashPassword("groundstation")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "groundstation"))
	assert.ErrorIs(t, CheckPassword("", "groundstation"), ErrPasswordMismatch)
}
