package models

import (
	"strings"
	"time"
)

// Client is a registered relying party. The authorization resolver uses it
// to validate return URLs on the authorize endpoint and post-logout
// redirect targets; token issuance itself lives outside this service.
type Client struct {
	ID                     int64  `gorm:"primaryKey;autoIncrement"`
	ClientID               string `gorm:"uniqueIndex;not null"`
	ClientName             string `gorm:"not null"`
	RedirectURIs           string // space-separated
	PostLogoutRedirectURIs string // space-separated
	IsActive               bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowsPostLogoutRedirect reports whether uri is a registered post-logout
// redirect target for this client.
func (c *Client) AllowsPostLogoutRedirect(uri string) bool {
	for _, registered := range strings.Fields(c.PostLogoutRedirectURIs) {
		if registered == uri {
			return true
		}
	}
	return false
}

// FirstPostLogoutRedirectURI returns the first registered post-logout
// redirect target, or "" when none is registered.
func (c *Client) FirstPostLogoutRedirectURI() string {
	uris := strings.Fields(c.PostLogoutRedirectURIs)
	if len(uris) == 0 {
		return ""
	}
	return uris[0]
}
