package middleware

import (
	"runtime/debug"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("panic", c.FullPath())
				utils.Logger.Error().
					Interface("panic", err).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString("request_id")).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
