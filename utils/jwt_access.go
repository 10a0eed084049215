package utils

import "errors"

const TokenIssuer = "timeTrack"

var (
	JWTSecretKey               string
	JWTExpirationTime          int64
	RefreshTokenExpirationTime int64
)

// InitJWT installs the signing secret and token lifetimes (in seconds).
func InitJWT(secret string, accessTTL, refreshTTL int64) error {
	if secret == "" {
		return errors.New("JWT secret key not set")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return errors.New("token expiration must be positive")
	}
	JWTSecretKey = secret
	JWTExpirationTime = accessTTL
	RefreshTokenExpirationTime = refreshTTL
	return nil
}
