package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Context keys set by middleware. Plain strings so non-gin callers (tests,
// background jobs) can populate them with context.WithValue.
const (
	CtxClientIP  = "client_ip"
	CtxSessionID = "session_id"
	CtxDeviceID  = "device_id"
	CtxUsername  = "username"
)

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Set(CtxClientIP, c.ClientIP())
		c.Next()
	}
}

// GetIPFromContext extracts the client IP address from the context
func GetIPFromContext(ctx context.Context) string {
	// Try to extract from Gin context first
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}

	// Try to get from context value (set by middleware)
	if ip, ok := ctx.Value(CtxClientIP).(string); ok {
		return ip
	}

	return ""
}

// GetSessionIDFromContext extracts the server-side session identifier.
func GetSessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, CtxSessionID)
}

// GetDeviceIDFromContext extracts the browser's device identifier cookie.
func GetDeviceIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, CtxDeviceID)
}

// GetUsernameFromContext extracts the acting user's display name.
func GetUsernameFromContext(ctx context.Context) string {
	return stringFromContext(ctx, CtxUsername)
}

func stringFromContext(ctx context.Context, key string) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if v, exists := ginCtx.Get(key); exists {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}

	if s, ok := ctx.Value(key).(string); ok { //nolint:staticcheck // string keys are shared with gin contexts
		return s
	}
	return ""
}

// WithSessionID returns a context carrying the given session id. Used by
// non-HTTP callers and tests.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, CtxSessionID, sessionID) //nolint:staticcheck // string keys are shared with gin contexts
}

// WithDeviceID returns a context carrying the given device id.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, CtxDeviceID, deviceID) //nolint:staticcheck // string keys are shared with gin contexts
}
