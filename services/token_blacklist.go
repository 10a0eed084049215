package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// RedisTokenBlacklist stores revoked tokens until they would have expired.
type RedisTokenBlacklist struct {
	Client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{Client: client}
}

func blacklistKey(tokenType, token string) string {
	return fmt.Sprintf("blacklist:%s:%s", tokenType, token)
}

// BlacklistTokens revokes an access and refresh token pair.
func (tb *RedisTokenBlacklist) BlacklistTokens(ctx context.Context, accessToken, refreshToken string) error {
	if err := tb.blacklistSingleToken(ctx, accessToken, TokenTypeAccess); err != nil {
		return fmt.Errorf("failed to blacklist access token: %w", err)
	}
	if refreshToken == "" {
		return nil
	}
	if err := tb.blacklistSingleToken(ctx, refreshToken, TokenTypeRefresh); err != nil {
		return fmt.Errorf("failed to blacklist refresh token: %w", err)
	}
	return nil
}

func (tb *RedisTokenBlacklist) BlacklistToken(ctx context.Context, token, tokenType string) error {
	return tb.blacklistSingleToken(ctx, token, tokenType)
}

func (tb *RedisTokenBlacklist) blacklistSingleToken(ctx context.Context, tokenString, tokenType string) error {
	ttl := tokenTTL(tokenString)
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}
	if err := tb.Client.Set(ctx, blacklistKey(tokenType, tokenString), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	utils.TokenUsage.WithLabelValues(tokenType, "revoked").Inc()
	return nil
}

// tokenTTL reads exp without verifying the signature; unreadable tokens are
// kept for a day.
func tokenTTL(tokenString string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 24 * time.Hour
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 24 * time.Hour
	}
	return time.Until(exp.Time)
}

// IsTokenBlacklisted checks both the access and refresh lists in one round trip.
// Redis errors are reported so callers can decide to fail closed.
func (tb *RedisTokenBlacklist) IsTokenBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	pipe := tb.Client.Pipeline()
	accessCmd := pipe.Exists(ctx, blacklistKey(TokenTypeAccess, tokenString))
	refreshCmd := pipe.Exists(ctx, blacklistKey(TokenTypeRefresh, tokenString))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return accessCmd.Val() > 0 || refreshCmd.Val() > 0, nil
}

func (tb *RedisTokenBlacklist) IsConnected(ctx context.Context) bool {
	if tb == nil || tb.Client == nil {
		return false
	}
	return tb.Client.Ping(ctx).Err() == nil
}
