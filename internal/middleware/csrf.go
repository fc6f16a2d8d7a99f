package middleware

import (
	"net/http"

	"github.com/go-aegis/aegis/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenKey    = "csrf_token"
	csrfFormField   = "csrf_token"
	csrfHeaderField = "X-CSRF-Token"
)

// CSRF issues a per-session token and rejects mutating requests that do
// not echo it back through the form or the X-CSRF-Token header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenKey).(string)
		if token == "" {
			generated, err := util.CryptoRandomString(64)
			if err != nil {
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{
					"error": "Failed to generate CSRF token",
				})
				c.Abort()
				return
			}
			token = generated
			session.Set(csrfTokenKey, token)
			if err := session.Save(); err != nil {
				c.HTML(http.StatusInternalServerError, "error.html", gin.H{
					"error": "Failed to save CSRF token",
				})
				c.Abort()
				return
			}
		}

		// Expose the token to the templates.
		c.Set(csrfTokenKey, token)

		if isMutating(c.Request.Method) {
			submitted := c.PostForm(csrfFormField)
			if submitted == "" {
				submitted = c.GetHeader(csrfHeaderField)
			}
			if submitted == "" || submitted != token {
				c.HTML(http.StatusForbidden, "error.html", gin.H{
					"error": "CSRF token validation failed. Please refresh the page and try again.",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// GetCSRFToken retrieves the CSRF token from the context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(csrfTokenKey); exists {
		if s, ok := token.(string); ok {
			return s
		}
	}
	return ""
}
