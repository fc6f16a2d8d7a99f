package identity

import "errors"

// User-facing error messages for soft failures.
const (
	MsgWrongCredentials   = "Wrong Email and/or Password!"
	MsgInvalidCredentials = "Invalid credentials"
	MsgEmailRegistered    = "This email address is already registered!"
	MsgUnknownAccount     = "Unknown account!"
	MsgNoSignedInUser     = "No signed-in user to sign out"
	MsgSignOutAllFailed   = "Could not sign out of all sessions"
)

// Audit failure reasons.
const (
	ReasonLockedOut         = "Locked Out"
	ReasonEmailNotConfirmed = "Email not confirmed"
)

// Stable messages carried by fatal flow errors, one per flow. Callers and
// tests assert on these instead of on library-specific error types.
const (
	MsgSignInFault            = "Something went wrong during sign in"
	MsgSignInTwoStepFault     = "Something went wrong during two-step sign in"
	MsgSignOutFault           = "Something went wrong during sign out"
	MsgSignUpFault            = "Something went wrong during sign up"
	MsgLockedTimeFault        = "Something went wrong while reading the lockout state"
	MsgSendCodeFault          = "Something went wrong while sending the verification code"
	MsgActivateAccountFault   = "Something went wrong while activating the account"
	MsgResetPasswordFault     = "Something went wrong while resetting the password"
	MsgSendActivationFault    = "Something went wrong while sending the activation link"
	MsgSendPasswordResetFault = "Something went wrong while requesting the password reset"
)

// FlowError is the fatal tier of the error taxonomy: an unexpected failure
// wrapped with a stable, user-presentable message. Soft business failures
// never become FlowErrors; they are returned inside outcomes.
type FlowError struct {
	msg   string
	cause error
}

// NewFlowError wraps cause with a stable message.
func NewFlowError(msg string, cause error) *FlowError {
	return &FlowError{msg: msg, cause: cause}
}

// Message returns the stable user-facing message.
func (e *FlowError) Message() string { return e.msg }

func (e *FlowError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *FlowError) Unwrap() error { return e.cause }

// wrapFatal decorates an unexpected error with the flow's stable message.
// Errors that already carry a FlowError are returned unchanged so messages
// are never stacked.
func wrapFatal(msg string, err error) error {
	var fe *FlowError
	if errors.As(err, &fe) {
		return err
	}
	return NewFlowError(msg, err)
}
