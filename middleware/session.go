package middleware

import (
	"context"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "session_id"

// SessionToucher records activity on a session; it returns nil for sessions
// that are gone, ended or idle past the timeout.
type SessionToucher interface {
	TouchSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// SessionMiddleware refreshes the session named by the session cookie and
// exposes it as "session". Requests without a usable session still proceed;
// AuthMiddleware decides access.
func SessionMiddleware(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		session, err := sessions.TouchSession(c.Request.Context(), sessionID)
		if err != nil {
			utils.TrackError("session", "touch_failed")
			utils.Logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh session")
			c.Next()
			return
		}
		if session == nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set("session", session)
		c.Set("session_id", session.SessionID)
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, session *model.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(SessionCookie, session.SessionID, maxAge, "/", "", true, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", true, true)
}
