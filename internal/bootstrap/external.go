package bootstrap

import (
	"log"
	"strings"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/config"
)

// initializeExternalProviders configures the external sign-in providers.
// An enabled provider with incomplete credentials is skipped with a
// warning rather than failing startup.
func initializeExternalProviders(cfg *config.Config) map[string]*auth.ExternalProvider {
	providers := make(map[string]*auth.ExternalProvider)

	switch {
	case !cfg.GitHubSignInEnabled:
	case cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "":
		log.Printf("Warning: GitHub sign-in enabled but GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET is missing, skipping")
	default:
		redirectURL := strings.TrimRight(cfg.BaseURL, "/") + "/auth/callback/github"
		provider := auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, redirectURL)
		providers[provider.Name()] = provider
		log.Printf("GitHub sign-in configured, callback %s", redirectURL)
	}

	return providers
}
