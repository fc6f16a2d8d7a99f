package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPath(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestExternalBeginRedirectsToProvider(t *testing.T) {
	f := newWebFixture(t)

	w := getPath(f.router, "/auth/sign-in/github")

	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "github.com/login/oauth/authorize")
	assert.Contains(t, location, "client_id=client-id")
	assert.Contains(t, location, "state=")
	assert.NotEmpty(t, w.Result().Cookies(), "state nonce must be stored in the session")
}

func TestExternalBeginUnknownProvider(t *testing.T) {
	f := newWebFixture(t)

	w := getPath(f.router, "/auth/sign-in/gitlab")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExternalCallbackStateMismatchRejected(t *testing.T) {
	f := newWebFixture(t)

	// No session, so no stored nonce matches the incoming state.
	w := getPath(f.router, "/auth/callback/github?state=forged&code=x")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "did not complete")
}

func TestExternalCallbackUnknownProvider(t *testing.T) {
	f := newWebFixture(t)

	w := getPath(f.router, "/auth/callback/gitlab?state=s&code=x")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignInPageListsProviders(t *testing.T) {
	f := newWebFixture(t)

	w := getPath(f.router, "/sign-in")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/auth/sign-in/github"`)
	assert.Contains(t, w.Body.String(), "Sign in with GitHub")
}
