package middleware

import (
	"net/http"
	"net/url"

	"github.com/go-aegis/aegis/internal/core"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth requires a signed-in user. The session carries the security
// stamp captured at sign-in; a mismatch against the store means the stamp
// was rotated (password reset, global sign-out) and the session is dead.
func RequireAuth(users core.UserManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserID).(string)
		if userID == "" {
			redirectToSignIn(c)
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"error": "Failed to verify session",
			})
			c.Abort()
			return
		}

		stamp, _ := session.Get(SessionSecurityStamp).(string)
		if user == nil || !user.IsActive() || stamp != user.SecurityStamp {
			session.Clear()
			_ = session.Save()
			redirectToSignIn(c)
			return
		}

		c.Set(SessionUserID, userID)
		c.Set(SessionUsername, user.DisplayName)
		c.Next()
	}
}

func redirectToSignIn(c *gin.Context) {
	returnURL := c.Request.URL.String()
	c.Redirect(http.StatusFound, "/sign-in?return_url="+url.QueryEscape(returnURL))
	c.Abort()
}
