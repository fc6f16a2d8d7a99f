package handlers

import (
	"net/http"

	"github.com/go-aegis/aegis/internal/middleware"

	"github.com/gin-gonic/gin"
)

// HomePage is the signed-in landing page.
func HomePage(c *gin.Context) {
	username, _ := c.Get(middleware.SessionUsername)
	c.HTML(http.StatusOK, "home.html", merge(baseProps(c), gin.H{
		"username": username,
	}))
}
