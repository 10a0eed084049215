package middleware

import (
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestTracingMiddleware reuses an incoming X-Request-ID or mints one.
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := utils.Logger.Info()
		if status >= 500 {
			event = utils.Logger.Error()
		} else if status >= 400 {
			event = utils.Logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Str("user_id", c.GetString("user_id")).
			Msg("request")
	}
}
