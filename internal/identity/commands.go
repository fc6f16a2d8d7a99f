package identity

// TwoFactorProviderEmail is the fixed second-factor provider: codes are
// generated server-side and delivered by mail.
const TwoFactorProviderEmail = "Email"

// Principal identifies the acting, already-authenticated user. It is
// threaded explicitly into commands instead of being read from ambient
// security state.
type Principal struct {
	SubjectID   string
	DisplayName string
}

// SignInCommand carries a first-factor sign-in attempt.
type SignInCommand struct {
	Email      string
	Password   string
	RememberMe bool
	ReturnURL  string
}

// SignInTwoStepCommand carries the second-factor verification.
type SignInTwoStepCommand struct {
	Code           string
	RememberMe     bool
	RememberClient bool
	ReturnURL      string
}

// SignOutCommand carries a sign-out request. The principal comes from the
// caller's security context, never from the request body, so a sign-out
// cannot target another user.
type SignOutCommand struct {
	LogoutID           string
	SignOutAllSessions bool
	ForgetClient       bool
	Principal          *Principal
}

// SignUpCommand carries a registration request.
type SignUpCommand struct {
	Email     string
	Password  string
	ReturnURL string
}

// LockedTimeQuery asks when a locked account unlocks.
type LockedTimeQuery struct {
	UserID string
}

// SendCodeCommand requests a fresh two-step verification code for the
// session's pending two-factor user.
type SendCodeCommand struct{}

// ActivateAccountCommand redeems an activation token.
type ActivateAccountCommand struct {
	UserID string
	Token  string
}

// ResetPasswordCommand redeems a password-reset token.
type ResetPasswordCommand struct {
	Email    string
	Token    string
	Password string
}

// SendAccountActivationCommand requests a (re-)send of the activation link.
type SendAccountActivationCommand struct {
	Email string
}

// SendPasswordResetCommand requests a password-reset link.
type SendPasswordResetCommand struct {
	Email string
}
