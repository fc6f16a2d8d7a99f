package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-aegis/aegis/internal/cache"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/store"
	"github.com/go-aegis/aegis/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Compile-time interface check.
var _ core.SignInService = (*SignInService)(nil)

// PendingTwoFactor is the transient first-factor state stashed between
// PasswordSignIn and TwoFactorSignIn, keyed by session id.
type PendingTwoFactor struct {
	UserID     string
	RememberMe bool
}

// SignInConfig carries the lockout and transient-state policy.
type SignInConfig struct {
	MaxFailedSignIns    int
	LockoutDuration     time.Duration
	PendingTwoFactorTTL time.Duration
	TrustedDeviceTTL    time.Duration
}

// SignInService implements core.SignInService. Credential verification and
// lockout bookkeeping live here; the transient per-session state (pending
// two-factor user, trusted devices) lives in the cache so multiple
// instances share it.
type SignInService struct {
	store   *store.Store
	codes   core.Cache[string]           // shared with Manager.GenerateTwoFactorToken
	pending core.Cache[PendingTwoFactor] // keyed by session id
	trusted core.Cache[string]           // device id -> user id

	maxFailedSignIns    int
	lockoutDuration     time.Duration
	pendingTwoFactorTTL time.Duration
	trustedDeviceTTL    time.Duration
}

// NewSignInService creates a sign-in service.
func NewSignInService(
	s *store.Store,
	codes core.Cache[string],
	pending core.Cache[PendingTwoFactor],
	trusted core.Cache[string],
	cfg SignInConfig,
) *SignInService {
	return &SignInService{
		store:               s,
		codes:               codes,
		pending:             pending,
		trusted:             trusted,
		maxFailedSignIns:    cfg.MaxFailedSignIns,
		lockoutDuration:     cfg.LockoutDuration,
		pendingTwoFactorTTL: cfg.PendingTwoFactorTTL,
		trustedDeviceTTL:    cfg.TrustedDeviceTTL,
	}
}

// PasswordSignIn verifies the password for an already-resolved principal
// and reports the sign-in status. Pre-sign-in checks run before the
// password so a locked or inactive account never leaks credential validity.
func (s *SignInService) PasswordSignIn(
	ctx context.Context,
	user *models.User,
	password string,
	rememberMe, lockoutOnFailure bool,
) (core.SignInStatus, error) {
	now := time.Now()

	if user.IsLockedOut(now) {
		return core.SignInLockedOut, nil
	}
	if !user.IsActive() {
		return core.SignInNotAllowed, nil
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		if !lockoutOnFailure {
			return core.SignInFailed, nil
		}
		return s.recordFailedAttempt(ctx, user, now)
	}

	// Correct password; clear lockout bookkeeping
	if err := s.resetLockout(user); err != nil {
		return core.SignInUnknown, err
	}

	if user.TwoFactorEnabled && !s.isTrustedDevice(ctx, user) {
		sessionID := util.GetSessionIDFromContext(ctx)
		if sessionID == "" {
			return core.SignInUnknown, fmt.Errorf("no session available for two-factor sign-in")
		}
		state := PendingTwoFactor{UserID: user.ID, RememberMe: rememberMe}
		if err := s.pending.Set(ctx, pendingKey(sessionID), state, s.pendingTwoFactorTTL); err != nil {
			return core.SignInUnknown, fmt.Errorf("failed to stash pending two-factor state: %w", err)
		}
		return core.SignInTwoFactorRequired, nil
	}

	return core.SignInSucceeded, nil
}

// TwoFactorSignIn verifies a second-factor code for the pending two-factor
// user of the current session.
func (s *SignInService) TwoFactorSignIn(
	ctx context.Context,
	provider, code string,
	rememberMe, rememberClient bool,
) (core.SignInStatus, error) {
	user, err := s.TwoFactorUser(ctx)
	if err != nil {
		return core.SignInUnknown, err
	}
	if user == nil {
		return core.SignInFailed, nil
	}

	now := time.Now()
	if user.IsLockedOut(now) {
		return core.SignInLockedOut, nil
	}

	expected, err := s.codes.Get(ctx, twoFactorCodeKey(provider, user.ID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			// Expired or never issued; counts as a failed attempt
			return s.recordFailedAttempt(ctx, user, now)
		}
		return core.SignInUnknown, fmt.Errorf("failed to read verification code: %w", err)
	}

	if code == "" || code != expected {
		return s.recordFailedAttempt(ctx, user, now)
	}

	// Code accepted; burn it and the pending state
	sessionID := util.GetSessionIDFromContext(ctx)
	if err := s.codes.Delete(ctx, twoFactorCodeKey(provider, user.ID)); err != nil {
		log.Printf("[SignIn] Failed to drop used verification code for user=%s: %v", user.ID, err)
	}
	if sessionID != "" {
		if err := s.pending.Delete(ctx, pendingKey(sessionID)); err != nil {
			log.Printf("[SignIn] Failed to drop pending two-factor state: %v", err)
		}
	}

	if err := s.resetLockout(user); err != nil {
		return core.SignInUnknown, err
	}

	if rememberClient {
		if deviceID := util.GetDeviceIDFromContext(ctx); deviceID != "" {
			if err := s.trusted.Set(ctx, deviceKey(deviceID), user.ID, s.trustedDeviceTTL); err != nil {
				log.Printf("[SignIn] Failed to remember device for user=%s: %v", user.ID, err)
			}
		}
	}

	return core.SignInSucceeded, nil
}

// TwoFactorUser returns the principal pending second-factor verification in
// the current session, or (nil, nil) when there is none.
func (s *SignInService) TwoFactorUser(ctx context.Context) (*models.User, error) {
	sessionID := util.GetSessionIDFromContext(ctx)
	if sessionID == "" {
		return nil, nil
	}

	state, err := s.pending.Get(ctx, pendingKey(sessionID))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pending two-factor state: %w", err)
	}

	user, err := s.store.GetUserByID(state.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pending two-factor user: %w", err)
	}
	return user, nil
}

// SignOut clears the server-side sign-in state for the current session.
func (s *SignInService) SignOut(ctx context.Context) error {
	sessionID := util.GetSessionIDFromContext(ctx)
	if sessionID == "" {
		return nil
	}
	return s.pending.Delete(ctx, pendingKey(sessionID))
}

// ForgetTwoFactorClient drops the remembered-device marker for the current
// browser.
func (s *SignInService) ForgetTwoFactorClient(ctx context.Context) error {
	deviceID := util.GetDeviceIDFromContext(ctx)
	if deviceID == "" {
		return nil
	}
	return s.trusted.Delete(ctx, deviceKey(deviceID))
}

// recordFailedAttempt bumps the failed counter and applies the lockout
// policy. Returns LockedOut when this attempt crossed the threshold.
func (s *SignInService) recordFailedAttempt(
	ctx context.Context,
	user *models.User,
	now time.Time,
) (core.SignInStatus, error) {
	user.FailedSignInCount++

	if user.FailedSignInCount >= s.maxFailedSignIns {
		end := now.Add(s.lockoutDuration)
		user.LockoutEnd = &end
		if err := s.store.SetLockoutState(user.ID, user.FailedSignInCount, &end); err != nil {
			return core.SignInUnknown, fmt.Errorf("failed to persist lockout: %w", err)
		}
		log.Printf("[SignIn] Account locked out: user=%s until=%s", user.ID, end.Format(time.RFC3339))
		return core.SignInLockedOut, nil
	}

	if err := s.store.SetLockoutState(user.ID, user.FailedSignInCount, nil); err != nil {
		return core.SignInUnknown, fmt.Errorf("failed to persist failed attempt: %w", err)
	}
	return core.SignInFailed, nil
}

func (s *SignInService) resetLockout(user *models.User) error {
	if user.FailedSignInCount == 0 && user.LockoutEnd == nil {
		return nil
	}
	if err := s.store.SetLockoutState(user.ID, 0, nil); err != nil {
		return fmt.Errorf("failed to reset lockout state: %w", err)
	}
	user.FailedSignInCount = 0
	user.LockoutEnd = nil
	return nil
}

func (s *SignInService) isTrustedDevice(ctx context.Context, user *models.User) bool {
	deviceID := util.GetDeviceIDFromContext(ctx)
	if deviceID == "" {
		return false
	}
	trustedUser, err := s.trusted.Get(ctx, deviceKey(deviceID))
	if err != nil {
		return false
	}
	return trustedUser == user.ID
}

func pendingKey(sessionID string) string {
	return "pending:" + sessionID
}

func deviceKey(deviceID string) string {
	return "device:" + deviceID
}
