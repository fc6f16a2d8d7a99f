package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBase = "https://api.github.com"

// ExternalIdentity is the profile an external sign-in provider reports
// after a completed authorization-code exchange.
type ExternalIdentity struct {
	Provider string
	Subject  string
	Username string
	Email    string
}

// ExternalProvider drives the authorization-code flow against one
// external sign-in provider and resolves the resulting identity.
type ExternalProvider struct {
	name        string
	displayName string
	config      *oauth2.Config
}

// NewGitHubProvider creates the GitHub external sign-in provider. The
// user:email scope is needed for accounts with a private profile email.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *ExternalProvider {
	return &ExternalProvider{
		name:        "github",
		displayName: "GitHub",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// Name returns the provider's route segment.
func (p *ExternalProvider) Name() string {
	return p.name
}

// DisplayName returns the human-readable provider name.
func (p *ExternalProvider) DisplayName() string {
	return p.displayName
}

// AuthURL returns the provider's authorization URL carrying the given
// anti-forgery state.
func (p *ExternalProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Identity exchanges the authorization code and resolves the external
// identity. An account without a usable email address is an error: the
// local account lookup keys on it.
func (p *ExternalProvider) Identity(ctx context.Context, code string) (*ExternalIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var profile githubProfile
	if err := getJSON(ctx, client, githubAPIBase+"/user", &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub profile: %w", err)
	}

	email := profile.Email
	if email == "" {
		var addresses []githubEmail
		if err := getJSON(ctx, client, githubAPIBase+"/user/emails", &addresses); err != nil {
			return nil, fmt.Errorf("failed to fetch GitHub email addresses: %w", err)
		}
		email = pickVerifiedEmail(addresses)
	}
	if email == "" {
		return nil, fmt.Errorf("GitHub account %q exposes no verified email address", profile.Login)
	}

	return &ExternalIdentity{
		Provider: p.name,
		Subject:  strconv.FormatInt(profile.ID, 10),
		Username: profile.Login,
		Email:    email,
	}, nil
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// pickVerifiedEmail prefers the primary verified address and falls back
// to any verified one.
func pickVerifiedEmail(addresses []githubEmail) string {
	fallback := ""
	for _, address := range addresses {
		if !address.Verified {
			continue
		}
		if address.Primary {
			return address.Email
		}
		if fallback == "" {
			fallback = address.Email
		}
	}
	return fallback
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %s: %s", url, resp.Status, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
