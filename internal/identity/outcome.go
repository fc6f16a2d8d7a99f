package identity

import (
	"time"

	"github.com/go-aegis/aegis/internal/core"
)

// DefaultReturnURL is the local route used whenever no return URL is
// supplied or resolvable.
const DefaultReturnURL = "/"

// FieldError is one form-level error. Field is empty for errors that do
// not belong to a single input.
type FieldError struct {
	Field   string
	Message string
}

// SignInState enumerates the mutually exclusive sign-in outcomes.
type SignInState int

const (
	SignInStateUnknown SignInState = iota
	SignInStateSucceeded
	SignInStateRequiresTwoStep
	SignInStateAccountNotActive
	SignInStateAccountLocked
	SignInStateFailed
)

// String returns a stable label for logging and metrics.
func (s SignInState) String() string {
	switch s {
	case SignInStateSucceeded:
		return "succeeded"
	case SignInStateRequiresTwoStep:
		return "requires_two_step"
	case SignInStateAccountNotActive:
		return "account_not_active"
	case SignInStateAccountLocked:
		return "account_locked"
	case SignInStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SignInOutcome is the closed result of one sign-in attempt. Exactly one
// variant is populated; the only way to build one is through the
// constructors below.
type SignInOutcome struct {
	state     SignInState
	returnURL string
	userID    string
	errors    []FieldError
}

// SignInSucceeded builds the success variant carrying the effective
// return URL.
func SignInSucceeded(returnURL string) SignInOutcome {
	return SignInOutcome{state: SignInStateSucceeded, returnURL: returnURL}
}

// SignInRequiresTwoStep builds the two-step variant. No return URL is
// carried; the caller must complete the second factor first.
func SignInRequiresTwoStep(userID string) SignInOutcome {
	return SignInOutcome{state: SignInStateRequiresTwoStep, userID: userID}
}

// SignInAccountNotActive builds the not-active variant.
func SignInAccountNotActive(userID string) SignInOutcome {
	return SignInOutcome{state: SignInStateAccountNotActive, userID: userID}
}

// SignInAccountLocked builds the locked-out variant.
func SignInAccountLocked(userID string) SignInOutcome {
	return SignInOutcome{state: SignInStateAccountLocked, userID: userID}
}

// SignInFailed builds the generic failure variant.
func SignInFailed(errs ...FieldError) SignInOutcome {
	return SignInOutcome{state: SignInStateFailed, errors: errs}
}

func (o SignInOutcome) State() SignInState { return o.state }
func (o SignInOutcome) Succeeded() bool    { return o.state == SignInStateSucceeded }

// ReturnURL is only meaningful on the succeeded variant.
func (o SignInOutcome) ReturnURL() string { return o.returnURL }

// UserID is populated on the variants that route to a dedicated follow-up
// screen (two-step, not-active, locked).
func (o SignInOutcome) UserID() string { return o.userID }

func (o SignInOutcome) Errors() []FieldError { return o.errors }

// SignOutOutcome is the closed result of one sign-out. It carries no user
// id: sign-out is always scoped to the acting principal.
type SignOutOutcome struct {
	succeeded   bool
	redirectURI string
	errors      []FieldError
}

// SignOutSucceeded builds the success variant carrying the post-logout
// redirect target.
func SignOutSucceeded(postLogoutRedirectURI string) SignOutOutcome {
	return SignOutOutcome{succeeded: true, redirectURI: postLogoutRedirectURI}
}

// SignOutFailed builds the failure variant.
func SignOutFailed(errs ...FieldError) SignOutOutcome {
	return SignOutOutcome{errors: errs}
}

func (o SignOutOutcome) Succeeded() bool               { return o.succeeded }
func (o SignOutOutcome) PostLogoutRedirectURI() string { return o.redirectURI }
func (o SignOutOutcome) Errors() []FieldError          { return o.errors }

// SignUpOutcome is the closed result of one sign-up attempt.
type SignUpOutcome struct {
	succeeded bool
	userID    string
	returnURL string
	errors    []FieldError
}

// SignUpSucceeded builds the success variant.
func SignUpSucceeded(userID, returnURL string) SignUpOutcome {
	return SignUpOutcome{succeeded: true, userID: userID, returnURL: returnURL}
}

// SignUpFailed builds the failure variant.
func SignUpFailed(errs ...FieldError) SignUpOutcome {
	return SignUpOutcome{errors: errs}
}

func (o SignUpOutcome) Succeeded() bool      { return o.succeeded }
func (o SignUpOutcome) UserID() string       { return o.userID }
func (o SignUpOutcome) ReturnURL() string    { return o.returnURL }
func (o SignUpOutcome) Errors() []FieldError { return o.errors }

// AccountOutcome is the shared success/failure result of the supporting
// account operations (send code, activate, reset password, send links).
type AccountOutcome struct {
	succeeded bool
	errors    []FieldError
}

// AccountSucceeded builds the success variant.
func AccountSucceeded() AccountOutcome {
	return AccountOutcome{succeeded: true}
}

// AccountFailed builds the failure variant.
func AccountFailed(errs ...FieldError) AccountOutcome {
	return AccountOutcome{errors: errs}
}

func (o AccountOutcome) Succeeded() bool      { return o.succeeded }
func (o AccountOutcome) Errors() []FieldError { return o.errors }

// LockedTimeResult reports when a locked account unlocks.
type LockedTimeResult struct {
	outcome     AccountOutcome
	lockedUntil *time.Time
}

// LockedUntil returns the lockout end, or nil when the account is not
// locked out.
func (r LockedTimeResult) LockedUntil() *time.Time { return r.lockedUntil }
func (r LockedTimeResult) Succeeded() bool         { return r.outcome.Succeeded() }
func (r LockedTimeResult) Errors() []FieldError    { return r.outcome.Errors() }

// fieldErrors converts identity-store violations into form errors.
func fieldErrors(field string, errs []core.IdentityError) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: field, Message: e.Description})
	}
	return out
}
