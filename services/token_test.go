package services

import (
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	require.NoError(t, utils.InitJWT("test_secret_key", 3600, 7200))
}

func TestTokenRoundTrip(t *testing.T) {
	setupJWT(t)

	access, err := GenerateToken("user-1")
	require.NoError(t, err)
	claims, err := ParseToken(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

	refresh, err := GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = ParseToken(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = ParseToken(refresh, TokenTypeRefresh)
	assert.NoError(t, err)

	again, err := GenerateToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, access, again)
}

func TestParseTokenRejects(t *testing.T) {
	setupJWT(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u", "type": TokenTypeAccess, "iss": utils.TokenIssuer,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	s, err := expired.SignedString([]byte(utils.JWTSecretKey))
	require.NoError(t, err)
	_, err = ParseToken(s, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u", "type": TokenTypeAccess, "iss": "someone-else",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	s, err = foreign.SignedString([]byte(utils.JWTSecretKey))
	require.NoError(t, err)
	_, err = ParseToken(s, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u", "type": TokenTypeAccess, "iss": utils.TokenIssuer,
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	s, err = wrongKey.SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = ParseToken(s, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTTL(t *testing.T) {
	setupJWT(t)
	access, err := GenerateToken("u")
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), tokenTTL(access).Seconds(), 5)
	assert.Equal(t, 24*time.Hour, tokenTTL("garbage"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!pw")
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "s3cret!pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "s3cret!px")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HashPassword("weak")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = VerifyPassword("no-separator", "x")
	assert.Error(t, err)
}
