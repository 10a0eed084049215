package middleware

import (
	"context"
	"strings"

	"github.com/pankaj3399/time-track-sub001/services"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

// TokenChecker reports whether a token was revoked.
type TokenChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware admits requests bearing a valid, unrevoked access token and
// stores its user id under "user_id". A nil checker skips the blacklist.
func AuthMiddleware(checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "missing_token")
			utils.Unauthorized(c, "Unauthorized")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := services.ParseToken(tokenString, services.TokenTypeAccess)
		if err != nil {
			utils.TrackAuthAttempt("failure", "invalid_token")
			utils.Unauthorized(c, "Invalid token")
			return
		}

		if checker != nil {
			revoked, err := checker.IsTokenBlacklisted(c.Request.Context(), tokenString)
			if err != nil {
				utils.TrackError("auth", "blacklist_check_failed")
				utils.Logger.Error().Err(err).Msg("token blacklist check failed")
				utils.Unauthorized(c, "Unauthorized")
				return
			}
			if revoked {
				utils.TrackAuthAttempt("failure", "blacklisted_token")
				utils.Unauthorized(c, "Token has been invalidated")
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("access_token", tokenString)
		c.Set("token_issued_at", claims.IssuedAt)
		c.Next()
	}
}
