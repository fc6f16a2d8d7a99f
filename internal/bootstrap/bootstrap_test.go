package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/mail"
	"github.com/go-aegis/aegis/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRateLimitingDisabled(t *testing.T) {
	limiters := setupRateLimiting(&config.Config{RateLimitEnabled: false}, metrics.NewNoop(), nil)
	require.NotNil(t, limiters.credentials)
	require.NotNil(t, limiters.mail)

	// Verify noop middlewares don't panic
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.NotPanics(t, func() { limiters.credentials(c) })
}

func TestSetupRateLimitingMemory(t *testing.T) {
	cfg := &config.Config{
		RateLimitEnabled:         true,
		RateLimitStore:           config.CacheBackendMemory,
		SignInPerMinute:          5,
		RateLimitCleanupInterval: time.Minute,
	}
	limiters := setupRateLimiting(cfg, metrics.NewNoop(), nil)
	require.NotNil(t, limiters.credentials)
	require.NotNil(t, limiters.mail)
}

func TestInitializeCachesMemory(t *testing.T) {
	caches := initializeCaches(&config.Config{CacheBackend: config.CacheBackendMemory}, nil)
	require.NotNil(t, caches.codes)
	require.NotNil(t, caches.pending)
	require.NotNil(t, caches.trusted)
	require.NotNil(t, caches.logoutContexts)
}

func TestInitializeRedisClientMemoryBackend(t *testing.T) {
	client, err := initializeRedisClient(&config.Config{CacheBackend: config.CacheBackendMemory})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitializeMailerLogMode(t *testing.T) {
	mailer, err := initializeMailer(&config.Config{MailMode: config.MailModeLog}, metrics.NewNoop())
	require.NoError(t, err)
	assert.IsType(t, &mail.LogMailer{}, mailer)
}

func TestInitializeExternalProvidersDisabled(t *testing.T) {
	providers := initializeExternalProviders(&config.Config{})
	assert.Empty(t, providers)
}

func TestInitializeExternalProvidersMissingCredentials(t *testing.T) {
	providers := initializeExternalProviders(&config.Config{
		GitHubSignInEnabled: true,
		GitHubClientID:      "client-id",
	})
	assert.Empty(t, providers)
}

func TestInitializeExternalProvidersGitHub(t *testing.T) {
	providers := initializeExternalProviders(&config.Config{
		BaseURL:             "http://localhost:8080/",
		GitHubSignInEnabled: true,
		GitHubClientID:      "client-id",
		GitHubClientSecret:  "client-secret",
	})
	require.Contains(t, providers, "github")
	assert.Equal(t, "GitHub", providers["github"].DisplayName())
}

func TestCreateHTTPServer(t *testing.T) {
	srv := createHTTPServer(
		&config.Config{ServerAddr: ":8080"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	require.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
}

func TestGinModeMap(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginModeMap[true])
	assert.Equal(t, gin.DebugMode, ginModeMap[false])
}
