package handlers

import (
	"errors"
	"net/http"

	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/middleware"

	"github.com/gin-gonic/gin"
)

// flowMessage extracts the stable user-facing message from a fatal flow
// error. Anything else gets a generic message; details stay in the logs.
func flowMessage(err error) string {
	var fe *identity.FlowError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return "Something went wrong"
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"error": message})
}

func renderFlowError(c *gin.Context, err error) {
	renderError(c, http.StatusInternalServerError, flowMessage(err))
}

// baseProps returns the template values every page needs.
func baseProps(c *gin.Context) gin.H {
	return gin.H{
		"csrf_token": middleware.GetCSRFToken(c),
	}
}

// merge folds extra values into the base props.
func merge(base gin.H, extra gin.H) gin.H {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// errorMessages flattens field errors for the templates.
func errorMessages(errs []identity.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}
