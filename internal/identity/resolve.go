package identity

import (
	"context"
	"strings"

	"github.com/go-aegis/aegis/internal/core"
)

// resolveReturnURL turns a caller-supplied return URL into the effective
// post-flow redirect. A pending authorization context wins; otherwise a
// blank URL falls back to the local default route and a plain local URL
// passes through unchanged. URLs the resolver rejects surface as errors.
func resolveReturnURL(ctx context.Context, authz core.AuthorizationResolver, returnURL string) (string, *core.AuthorizationContext, error) {
	authCtx, err := authz.Resolve(ctx, returnURL)
	if err != nil {
		return "", nil, err
	}
	if authCtx != nil {
		return authCtx.ReturnURL, authCtx, nil
	}
	trimmed := strings.TrimSpace(returnURL)
	if trimmed == "" {
		return DefaultReturnURL, nil, nil
	}
	return trimmed, nil, nil
}

func clientIDOf(authCtx *core.AuthorizationContext) string {
	if authCtx == nil {
		return ""
	}
	return authCtx.ClientID
}
