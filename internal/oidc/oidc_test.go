package oidc

import (
	"context"
	"testing"
	"time"

	"github.com/go-aegis/aegis/internal/cache"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080"

func setupResolver(t *testing.T) (*AuthorizationResolver, *store.Store) {
	t.Helper()
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	return NewAuthorizationResolver(s, testBaseURL), s
}

func TestResolve_EmptyAndWhitespace(t *testing.T) {
	r, _ := setupResolver(t)

	for _, returnURL := range []string{"", "   ", "\t"} {
		got, err := r.Resolve(context.Background(), returnURL)
		require.NoError(t, err)
		assert.Nil(t, got, "returnURL %q should carry no context", returnURL)
	}
}

func TestResolve_LocalPathPassesThrough(t *testing.T) {
	r, _ := setupResolver(t)

	for _, returnURL := range []string{
		"/dashboard",
		"http://localhost:8080/dashboard",
	} {
		got, err := r.Resolve(context.Background(), returnURL)
		require.NoError(t, err, "returnURL %q", returnURL)
		assert.Nil(t, got)
	}
}

func TestResolve_AuthorizeURLWithKnownClient(t *testing.T) {
	r, _ := setupResolver(t)

	// "aegis-portal" is seeded by the store
	returnURL := "/connect/authorize?client_id=aegis-portal&scope=openid"
	got, err := r.Resolve(context.Background(), returnURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "aegis-portal", got.ClientID)
	assert.Equal(t, "Aegis Portal", got.ClientName)
	assert.Equal(t, returnURL, got.ReturnURL)
}

func TestResolve_AuthorizeURLWithUnknownClient(t *testing.T) {
	r, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), "/connect/authorize?client_id=ghost")
	assert.ErrorIs(t, err, ErrInvalidReturnURL)
}

func TestResolve_AuthorizeURLWithoutClientID(t *testing.T) {
	r, _ := setupResolver(t)

	_, err := r.Resolve(context.Background(), "/connect/authorize?scope=openid")
	assert.ErrorIs(t, err, ErrInvalidReturnURL)
}

func TestResolve_ForeignURLRejected(t *testing.T) {
	r, _ := setupResolver(t)

	for _, returnURL := range []string{
		"http://evil.com/dashboard",
		"//evil.com",
		"/\\evil.com",
		"/x\r\nSet-Cookie: a=b",
		"javascript:alert(1)",
	} {
		_, err := r.Resolve(context.Background(), returnURL)
		assert.ErrorIs(t, err, ErrInvalidReturnURL, "returnURL %q", returnURL)
	}
}

func TestLogoutResolver_RoundTrip(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	r := NewLogoutResolver(s, cache.NewMemoryCache[core.LogoutRequest](), time.Minute)
	ctx := context.Background()

	id, err := r.CreateLogoutContext(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	request, err := r.LogoutContext(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.True(t, request.ShowSignOutPrompt)
	assert.Empty(t, request.PostLogoutRedirectURI)
}

func TestLogoutResolver_UnknownIDIsNilNil(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	r := NewLogoutResolver(s, cache.NewMemoryCache[core.LogoutRequest](), time.Minute)

	request, err := r.LogoutContext(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, request)
}

func TestRegisterClientLogout_RegisteredRedirect(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	r := NewLogoutResolver(s, cache.NewMemoryCache[core.LogoutRequest](), time.Minute)
	ctx := context.Background()

	// Seeded client registers http://localhost:8080/signed-out
	id, err := r.RegisterClientLogout(ctx, "aegis-portal", "http://localhost:8080/signed-out")
	require.NoError(t, err)

	request, err := r.LogoutContext(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, "aegis-portal", request.ClientID)
	assert.Equal(t, "http://localhost:8080/signed-out", request.PostLogoutRedirectURI)
}

func TestRegisterClientLogout_UnregisteredRedirectDropped(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	r := NewLogoutResolver(s, cache.NewMemoryCache[core.LogoutRequest](), time.Minute)
	ctx := context.Background()

	id, err := r.RegisterClientLogout(ctx, "aegis-portal", "http://evil.com/out")
	require.NoError(t, err)

	request, err := r.LogoutContext(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Empty(t, request.PostLogoutRedirectURI)
}
