package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionLastActivity is the session key tracking the last request time.
const SessionLastActivity = "last_activity"

// SessionIdleTimeout signs users out after a period of inactivity.
// A timeout of 0 disables the check. Anonymous sessions pass through.
func SessionIdleTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if session.Get(SessionUserID) == nil {
			c.Next()
			return
		}

		now := time.Now().Unix()
		if last, ok := session.Get(SessionLastActivity).(int64); ok {
			if now-last > int64(timeout.Seconds()) {
				session.Clear()
				_ = session.Save()
				c.Redirect(http.StatusFound, "/sign-in?error=session_timeout")
				c.Abort()
				return
			}
		}

		session.Set(SessionLastActivity, now)
		_ = session.Save()
		c.Next()
	}
}
