package oidc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-aegis/aegis/internal/cache"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/store"
	"github.com/go-aegis/aegis/internal/util"

	"gorm.io/gorm"
)

// Compile-time interface check.
var _ core.LogoutResolver = (*LogoutResolver)(nil)

// LogoutResolver issues and resolves logout context ids. Contexts live in
// the cache so any instance can resolve an id issued by another.
type LogoutResolver struct {
	store    *store.Store
	contexts core.Cache[core.LogoutRequest]
	ttl      time.Duration
}

// NewLogoutResolver creates a logout resolver.
func NewLogoutResolver(s *store.Store, contexts core.Cache[core.LogoutRequest], ttl time.Duration) *LogoutResolver {
	return &LogoutResolver{store: s, contexts: contexts, ttl: ttl}
}

// CreateLogoutContext issues a fresh, anonymous logout context. Used when a
// sign-out starts locally rather than from a relying party.
func (r *LogoutResolver) CreateLogoutContext(ctx context.Context) (string, error) {
	return r.register(ctx, core.LogoutRequest{ShowSignOutPrompt: true})
}

// RegisterClientLogout issues a logout context for an RP-initiated
// sign-out. The post-logout redirect URI is kept only when the client has
// it registered; an unregistered URI is dropped, not an error.
func (r *LogoutResolver) RegisterClientLogout(ctx context.Context, clientID, postLogoutRedirectURI string) (string, error) {
	request := core.LogoutRequest{ClientID: clientID}

	client, err := r.store.GetClient(clientID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to resolve client %q: %w", clientID, err)
		}
		log.Printf("[Logout] Unknown client %q in logout request, ignoring redirect URI", clientID)
	} else if postLogoutRedirectURI != "" {
		if client.AllowsPostLogoutRedirect(postLogoutRedirectURI) {
			request.PostLogoutRedirectURI = postLogoutRedirectURI
		} else {
			log.Printf("[Logout] Unregistered post-logout redirect %q for client %q, dropping",
				postLogoutRedirectURI, clientID)
		}
	} else {
		request.PostLogoutRedirectURI = client.FirstPostLogoutRedirectURI()
	}

	return r.register(ctx, request)
}

// LogoutContext resolves a logout context id. Returns (nil, nil) when the
// id is unknown or expired.
func (r *LogoutResolver) LogoutContext(ctx context.Context, id string) (*core.LogoutRequest, error) {
	if id == "" {
		return nil, nil
	}

	request, err := r.contexts.Get(ctx, contextKey(id))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve logout context %q: %w", id, err)
	}
	return &request, nil
}

func (r *LogoutResolver) register(ctx context.Context, request core.LogoutRequest) (string, error) {
	id, err := util.CryptoRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate logout context id: %w", err)
	}
	if err := r.contexts.Set(ctx, contextKey(id), request, r.ttl); err != nil {
		return "", fmt.Errorf("failed to store logout context: %w", err)
	}
	return id, nil
}

func contextKey(id string) string {
	return "logout:" + id
}
