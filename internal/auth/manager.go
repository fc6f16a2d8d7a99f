package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/store"
	"github.com/go-aegis/aegis/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Compile-time interface check.
var _ core.UserManager = (*Manager)(nil)

// ManagerConfig carries the policy knobs for the user manager.
type ManagerConfig struct {
	SigningSecret      string
	ActivationTokenTTL time.Duration
	PasswordResetTTL   time.Duration
	TwoFactorCodeTTL   time.Duration
	MinPasswordLength  int
}

// Manager implements core.UserManager on top of the relational store.
// It owns password hashing, the password policy, purpose tokens, and the
// security stamp.
type Manager struct {
	store *store.Store
	codes core.Cache[string] // emailed two-factor codes, shared with the sign-in service

	signingSecret      []byte
	activationTokenTTL time.Duration
	passwordResetTTL   time.Duration
	twoFactorCodeTTL   time.Duration
	minPasswordLength  int
}

// NewManager creates a user manager.
func NewManager(s *store.Store, codes core.Cache[string], cfg ManagerConfig) *Manager {
	return &Manager{
		store:              s,
		codes:              codes,
		signingSecret:      []byte(cfg.SigningSecret),
		activationTokenTTL: cfg.ActivationTokenTTL,
		passwordResetTTL:   cfg.PasswordResetTTL,
		twoFactorCodeTTL:   cfg.TwoFactorCodeTTL,
		minPasswordLength:  cfg.MinPasswordLength,
	}
}

// FindByEmail looks up a principal by normalized email.
// Returns (nil, nil) when no principal matches.
func (m *Manager) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := m.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return user, nil
}

// FindByID looks up a principal by id. Returns (nil, nil) when no
// principal matches.
func (m *Manager) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := m.store.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user by id: %w", err)
	}
	return user, nil
}

// Create hashes the password, enforces the password policy, and persists
// the principal. Policy violations come back in the result.
func (m *Manager) Create(ctx context.Context, user *models.User, password string) (*core.IdentityResult, error) {
	if violations := validatePassword(password, m.minPasswordLength); len(violations) > 0 {
		return core.FailedResult(violations...), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = models.NormalizeEmail(user.Email)
	user.PasswordHash = string(hash)
	user.SecurityStamp = uuid.New().String()

	if err := m.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrEmailConflict) {
			return core.FailedResult(core.IdentityError{
				Code:        CodeDuplicateEmail,
				Description: "This email address is already registered!",
			}), nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return core.OkResult(), nil
}

// ConfirmEmail validates an activation token and marks the email confirmed.
func (m *Manager) ConfirmEmail(ctx context.Context, user *models.User, token string) (*core.IdentityResult, error) {
	if err := m.checkToken(user, token, purposeActivation); err != nil {
		return core.FailedResult(core.IdentityError{
			Code:        CodeInvalidToken,
			Description: "The activation link is invalid or has expired.",
		}), nil
	}

	if err := m.store.SetEmailConfirmed(user.ID); err != nil {
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}
	user.EmailConfirmed = true

	return core.OkResult(), nil
}

// ResetPassword validates a reset token, enforces the password policy, and
// replaces the stored hash. The security stamp is rotated so every existing
// session and outstanding token is invalidated.
func (m *Manager) ResetPassword(ctx context.Context, user *models.User, token, newPassword string) (*core.IdentityResult, error) {
	if err := m.checkToken(user, token, purposePasswordReset); err != nil {
		return core.FailedResult(core.IdentityError{
			Code:        CodeInvalidToken,
			Description: "The password reset link is invalid or has expired.",
		}), nil
	}

	if violations := validatePassword(newPassword, m.minPasswordLength); len(violations) > 0 {
		return core.FailedResult(violations...), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := m.store.SetPasswordHash(user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("failed to store password hash: %w", err)
	}
	user.PasswordHash = string(hash)

	// A successful reset clears any standing lockout
	if err := m.store.SetLockoutState(user.ID, 0, nil); err != nil {
		return nil, fmt.Errorf("failed to clear lockout state: %w", err)
	}
	user.FailedSignInCount = 0
	user.LockoutEnd = nil

	if result, err := m.UpdateSecurityStamp(ctx, user); err != nil || !result.Succeeded {
		return result, err
	}

	return core.OkResult(), nil
}

// GenerateEmailConfirmationToken mints an activation token for the user.
func (m *Manager) GenerateEmailConfirmationToken(ctx context.Context, user *models.User) (string, error) {
	return m.mintToken(user, purposeActivation, m.activationTokenTTL)
}

// GeneratePasswordResetToken mints a password-reset token for the user.
func (m *Manager) GeneratePasswordResetToken(ctx context.Context, user *models.User) (string, error) {
	return m.mintToken(user, purposePasswordReset, m.passwordResetTTL)
}

// GenerateTwoFactorToken generates a short numeric code for the given
// provider and stashes it for later verification by the sign-in service.
func (m *Manager) GenerateTwoFactorToken(ctx context.Context, user *models.User, provider string) (string, error) {
	code, err := util.NumericCode(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	if err := m.codes.Set(ctx, twoFactorCodeKey(provider, user.ID), code, m.twoFactorCodeTTL); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// AddToRoles attaches the named roles to the user in one call.
func (m *Manager) AddToRoles(ctx context.Context, user *models.User, roles []string) (*core.IdentityResult, error) {
	resolved, err := m.store.GetRolesByNames(roles)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			return core.FailedResult(core.IdentityError{
				Code:        CodeUnknownRole,
				Description: "One or more roles do not exist.",
			}), nil
		}
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}

	if err := m.store.AddUserToRoles(user, resolved); err != nil {
		return core.FailedResult(core.IdentityError{
			Code:        CodeStoreFailure,
			Description: "Failed to assign roles to the user.",
		}), nil
	}

	return core.OkResult(), nil
}

// DefaultRoles returns all roles flagged for default assignment.
func (m *Manager) DefaultRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := m.store.GetDefaultRoles()
	if err != nil {
		return nil, fmt.Errorf("failed to load default roles: %w", err)
	}
	return roles, nil
}

// UpdateSecurityStamp rotates the user's security stamp.
func (m *Manager) UpdateSecurityStamp(ctx context.Context, user *models.User) (*core.IdentityResult, error) {
	stamp := uuid.New().String()
	if err := m.store.SetSecurityStamp(user.ID, stamp); err != nil {
		return nil, fmt.Errorf("failed to rotate security stamp: %w", err)
	}
	user.SecurityStamp = stamp
	return core.OkResult(), nil
}

// LockoutEnd returns the user's current lockout end, re-read from the
// store, or nil when the user is not locked out.
func (m *Manager) LockoutEnd(ctx context.Context, user *models.User) (*time.Time, error) {
	fresh, err := m.store.GetUserByID(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockout state: %w", err)
	}
	if !fresh.IsLockedOut(time.Now()) {
		return nil, nil
	}
	return fresh.LockoutEnd, nil
}

func twoFactorCodeKey(provider, userID string) string {
	return "code:" + provider + ":" + userID
}
