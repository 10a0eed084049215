package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("invalid token type")
)

// TokenClaims is what the service reads back from a verified token.
type TokenClaims struct {
	UserID    string
	Type      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// GenerateToken issues a short-lived access token for the user.
func GenerateToken(userID string) (string, error) {
	return generate(userID, TokenTypeAccess, time.Duration(utils.JWTExpirationTime)*time.Second)
}

// GenerateRefreshToken issues a long-lived token accepted only by the refresh endpoint.
func GenerateRefreshToken(userID string) (string, error) {
	return generate(userID, TokenTypeRefresh, time.Duration(utils.RefreshTokenExpirationTime)*time.Second)
}

func generate(userID, tokenType string, ttl time.Duration) (string, error) {
	if utils.JWTSecretKey == "" {
		return "", errors.New("JWT secret key not set")
	}
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
		"iss":     utils.TokenIssuer,
		"type":    tokenType,
		"jti":     utils.NewID(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(utils.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, expiry, issuer and type.
func ParseToken(tokenString, expectedType string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	}, jwt.WithIssuer(utils.TokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	tokenType, _ := claims["type"].(string)
	if tokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	out := &TokenClaims{UserID: userID, Type: tokenType}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}
