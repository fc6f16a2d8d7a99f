package core

import (
	"context"
	"time"

	"github.com/go-aegis/aegis/internal/models"
)

// SignInStatus is the outcome reported by the sign-in service for one
// credential or second-factor check.
type SignInStatus int

const (
	SignInUnknown SignInStatus = iota
	SignInSucceeded
	SignInTwoFactorRequired
	SignInLockedOut
	SignInNotAllowed // account exists but may not sign in (email unconfirmed, soft-deleted)
	SignInFailed
)

// String returns a stable label for logging and metrics.
func (s SignInStatus) String() string {
	switch s {
	case SignInSucceeded:
		return "succeeded"
	case SignInTwoFactorRequired:
		return "two_factor_required"
	case SignInLockedOut:
		return "locked_out"
	case SignInNotAllowed:
		return "not_allowed"
	case SignInFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IdentityError is a single policy violation reported by the user manager.
type IdentityError struct {
	Code        string
	Description string
}

// IdentityResult is the success/failure result of a user-manager mutation.
// A failed result carries at least one error.
type IdentityResult struct {
	Succeeded bool
	Errors    []IdentityError
}

// OkResult returns a succeeded identity result.
func OkResult() *IdentityResult {
	return &IdentityResult{Succeeded: true}
}

// FailedResult returns a failed identity result carrying the given errors.
func FailedResult(errs ...IdentityError) *IdentityResult {
	return &IdentityResult{Errors: errs}
}

// UserManager owns all reads and mutations of identity principals.
// Lookups return (nil, nil) when no matching principal exists; a non-nil
// error always means infrastructure failure, never "not found".
type UserManager interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Create hashes the password, enforces the password policy, and persists
	// the principal. Policy violations come back in the result, not as error.
	Create(ctx context.Context, user *models.User, password string) (*IdentityResult, error)

	ConfirmEmail(ctx context.Context, user *models.User, token string) (*IdentityResult, error)
	ResetPassword(ctx context.Context, user *models.User, token, newPassword string) (*IdentityResult, error)

	GenerateEmailConfirmationToken(ctx context.Context, user *models.User) (string, error)
	GeneratePasswordResetToken(ctx context.Context, user *models.User) (string, error)
	GenerateTwoFactorToken(ctx context.Context, user *models.User, provider string) (string, error)

	AddToRoles(ctx context.Context, user *models.User, roles []string) (*IdentityResult, error)
	DefaultRoles(ctx context.Context) ([]models.Role, error)

	// UpdateSecurityStamp rotates the user's security stamp, invalidating
	// every session bound to the old stamp.
	UpdateSecurityStamp(ctx context.Context, user *models.User) (*IdentityResult, error)

	LockoutEnd(ctx context.Context, user *models.User) (*time.Time, error)
}

// SignInService performs credential and second-factor verification and owns
// the transient per-session sign-in state (pending two-factor user,
// trusted-device markers).
type SignInService interface {
	// PasswordSignIn verifies the password for an already-resolved principal.
	// With lockoutOnFailure set, failures count toward the lockout policy.
	PasswordSignIn(ctx context.Context, user *models.User, password string, rememberMe, lockoutOnFailure bool) (SignInStatus, error)

	// TwoFactorSignIn verifies a second-factor code for the pending
	// two-factor user stashed by a prior PasswordSignIn call.
	TwoFactorSignIn(ctx context.Context, provider, code string, rememberMe, rememberClient bool) (SignInStatus, error)

	// TwoFactorUser returns the principal pending second-factor verification
	// in the current session, or (nil, nil) when there is none.
	TwoFactorUser(ctx context.Context) (*models.User, error)

	// SignOut clears the server-side sign-in state for the current session.
	SignOut(ctx context.Context) error

	// ForgetTwoFactorClient drops the remembered-device marker for the
	// current browser so the next sign-in requires the second factor again.
	ForgetTwoFactorClient(ctx context.Context) error
}

// AuthorizationContext describes the pending authorization request a
// return URL belongs to.
type AuthorizationContext struct {
	ClientID   string
	ClientName string
	ReturnURL  string
}

// AuthorizationResolver validates return URLs against registered relying
// parties. Resolve returns (nil, nil) for empty or plain local return URLs
// (the caller falls back to its default route) and an error for URLs that
// belong to no known authorization context.
type AuthorizationResolver interface {
	Resolve(ctx context.Context, returnURL string) (*AuthorizationContext, error)
}

// LogoutRequest describes one pending logout context.
type LogoutRequest struct {
	ClientID              string
	PostLogoutRedirectURI string
	ShowSignOutPrompt     bool
}

// LogoutResolver issues and resolves logout context ids.
type LogoutResolver interface {
	CreateLogoutContext(ctx context.Context) (string, error)

	// RegisterClientLogout issues a context for a relying-party initiated
	// sign-out. An unregistered redirect URI is dropped, not an error.
	RegisterClientLogout(ctx context.Context, clientID, postLogoutRedirectURI string) (string, error)

	// LogoutContext returns (nil, nil) when the id is unknown or expired.
	LogoutContext(ctx context.Context, id string) (*LogoutRequest, error)
}
