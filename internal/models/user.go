package models

import (
	"strings"
	"time"
)

// User is the identity principal. All mutation goes through the auth
// package's Manager; nothing else writes these rows.
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"uniqueIndex;not null"` // stored normalized (lower-case, trimmed)
	PasswordHash string `gorm:"not null"`
	DisplayName  string

	// Security bookkeeping
	SecurityStamp    string `gorm:"not null"` // rotated to invalidate all sessions
	EmailConfirmed   bool   `gorm:"not null;default:false"`
	TwoFactorEnabled bool   `gorm:"not null;default:false"`
	Deleted          bool   `gorm:"not null;default:false"` // soft delete

	// Lockout bookkeeping
	FailedSignInCount int `gorm:"not null;default:0"`
	LockoutEnd        *time.Time

	Roles []Role `gorm:"many2many:user_roles"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLockedOut reports whether the user is currently locked out.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// IsActive reports whether the account may sign in at all.
func (u *User) IsActive() bool {
	return u.EmailConfirmed && !u.Deleted
}

// RoleNames returns the names of all assigned roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
