package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/store"

	"gorm.io/gorm"
)

// AuthorizePath is the authorize endpoint relying parties send users to.
// Return URLs pointing here carry an authorization context.
const AuthorizePath = "/connect/authorize"

// ErrInvalidReturnURL is returned for return URLs that belong to no known
// authorization context and are not recognized local paths. Callers treat
// this as fatal, never as a soft failure.
var ErrInvalidReturnURL = errors.New("return URL belongs to no known authorization context")

// Compile-time interface check.
var _ core.AuthorizationResolver = (*AuthorizationResolver)(nil)

// AuthorizationResolver validates return URLs against the registered
// relying parties.
type AuthorizationResolver struct {
	store   *store.Store
	baseURL string
}

// NewAuthorizationResolver creates an authorization resolver.
func NewAuthorizationResolver(s *store.Store, baseURL string) *AuthorizationResolver {
	return &AuthorizationResolver{store: s, baseURL: baseURL}
}

// Resolve classifies a return URL.
//   - empty or whitespace: (nil, nil), the caller falls back to its default
//   - authorize-endpoint URL with a known client: the authorization context
//   - other local-safe path: (nil, nil), the URL passes through untouched
//   - anything else: ErrInvalidReturnURL
func (r *AuthorizationResolver) Resolve(ctx context.Context, returnURL string) (*core.AuthorizationContext, error) {
	trimmed := strings.TrimSpace(returnURL)
	if trimmed == "" {
		return nil, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReturnURL, returnURL)
	}

	if parsed.Path == AuthorizePath || strings.HasSuffix(parsed.Path, AuthorizePath) {
		return r.resolveAuthorizeContext(ctx, trimmed, parsed)
	}

	if r.localReturnURL(trimmed, parsed) {
		// Recognized local path; no authorization context attached
		return nil, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidReturnURL, returnURL)
}

// localReturnURL reports whether a return URL stays on this deployment:
// a rooted path, or an absolute http(s) URL on the resolver's own host.
// Scheme-relative URLs, backslashes, and CR/LF header injection are all
// rejected, as are non-http(s) schemes such as javascript:.
func (r *AuthorizationResolver) localReturnURL(raw string, parsed *url.URL) bool {
	if strings.ContainsAny(raw, "\r\n") || strings.Contains(raw, `\`) {
		return false
	}
	if strings.HasPrefix(raw, "/") {
		return !strings.HasPrefix(raw, "//")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	base, err := url.Parse(r.baseURL)
	if err != nil {
		return false
	}
	return parsed.Host != "" && parsed.Host == base.Host
}

func (r *AuthorizationResolver) resolveAuthorizeContext(
	ctx context.Context,
	returnURL string,
	parsed *url.URL,
) (*core.AuthorizationContext, error) {
	if !r.localReturnURL(returnURL, parsed) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReturnURL, returnURL)
	}

	clientID := parsed.Query().Get("client_id")
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", ErrInvalidReturnURL)
	}

	client, err := r.store.GetClient(clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown client %q", ErrInvalidReturnURL, clientID)
		}
		return nil, fmt.Errorf("failed to resolve client %q: %w", clientID, err)
	}

	return &core.AuthorizationContext{
		ClientID:   client.ClientID,
		ClientName: client.ClientName,
		ReturnURL:  returnURL,
	}, nil
}
