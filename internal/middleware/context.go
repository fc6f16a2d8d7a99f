package middleware

import (
	"net/http"

	"github.com/go-aegis/aegis/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session keys shared across middleware and handlers.
const (
	SessionUserID        = "user_id"
	SessionUsername      = "username"
	SessionSecurityStamp = "security_stamp"
	SessionIDKey         = "session_id"
)

// DeviceCookie is the long-lived browser cookie carrying the device id
// used for remembered two-factor clients.
const DeviceCookie = "aegis_device"

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// SessionContext assigns every session a stable server-side id and every
// browser a device id cookie, and threads both into the request context so
// services below the HTTP layer can key transient state on them.
func SessionContext(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		sessionID, _ := session.Get(SessionIDKey).(string)
		if sessionID == "" {
			sessionID = uuid.NewString()
			session.Set(SessionIDKey, sessionID)
			if err := session.Save(); err != nil {
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{
					"error": "Failed to initialize session",
				})
				c.Abort()
				return
			}
		}

		deviceID, err := c.Cookie(DeviceCookie)
		if err != nil || deviceID == "" {
			deviceID = uuid.NewString()
			c.SetCookie(DeviceCookie, deviceID, deviceCookieMaxAge, "/", "", secureCookies, true)
		}

		c.Set(util.CtxSessionID, sessionID)
		c.Set(util.CtxDeviceID, deviceID)
		if username, ok := session.Get(SessionUsername).(string); ok {
			c.Set(util.CtxUsername, username)
		}
		c.Next()
	}
}
