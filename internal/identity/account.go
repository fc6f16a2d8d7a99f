package identity

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
)

// AccountHandler bundles the supporting account flows: lockout inquiry,
// verification-code delivery, account activation, and password reset.
// Every flow follows the same shape: look the principal up, run one
// user-manager delegate, map its result, audit. The shared helpers below
// keep the per-flow code down to the delegate and the mapping.
type AccountHandler struct {
	users   core.UserManager
	signIn  core.SignInService
	mailer  core.Mailer
	audit   core.AuditRecorder
	baseURL string
}

// NewAccountHandler creates the supporting-flow handler. baseURL is the
// externally reachable origin used to build activation and reset links.
func NewAccountHandler(users core.UserManager, signIn core.SignInService, mailer core.Mailer, audit core.AuditRecorder, baseURL string) *AccountHandler {
	return &AccountHandler{
		users:   users,
		signIn:  signIn,
		mailer:  mailer,
		audit:   audit,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// withUserByEmail resolves the principal by email and runs fn against it.
// An unknown address fails softly with a single generic error so the flow
// does not confirm which addresses are registered.
func (h *AccountHandler) withUserByEmail(ctx context.Context, email string, fn func(*models.User) (AccountOutcome, error)) (AccountOutcome, error) {
	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		return AccountOutcome{}, err
	}
	if user == nil {
		return AccountFailed(FieldError{Message: MsgUnknownAccount}), nil
	}
	return fn(user)
}

func (h *AccountHandler) withUserByID(ctx context.Context, id string, fn func(*models.User) (AccountOutcome, error)) (AccountOutcome, error) {
	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		return AccountOutcome{}, err
	}
	if user == nil {
		return AccountFailed(FieldError{Message: MsgUnknownAccount}), nil
	}
	return fn(user)
}

// LockedTime reports when the given account's lockout ends.
func (h *AccountHandler) LockedTime(ctx context.Context, query LockedTimeQuery) (LockedTimeResult, error) {
	user, err := h.users.FindByID(ctx, query.UserID)
	if err != nil {
		return LockedTimeResult{}, wrapFatal(MsgLockedTimeFault, err)
	}
	if user == nil {
		return LockedTimeResult{outcome: AccountFailed(FieldError{Message: MsgUnknownAccount})}, nil
	}
	end, err := h.users.LockoutEnd(ctx, user)
	if err != nil {
		return LockedTimeResult{}, wrapFatal(MsgLockedTimeFault, err)
	}
	return LockedTimeResult{outcome: AccountSucceeded(), lockedUntil: end}, nil
}

// SendCode generates a fresh two-step code for the session's pending
// two-factor user and mails it.
func (h *AccountHandler) SendCode(ctx context.Context, _ SendCodeCommand) (AccountOutcome, error) {
	outcome, err := h.sendCode(ctx)
	if err != nil {
		return AccountOutcome{}, wrapFatal(MsgSendCodeFault, err)
	}
	return outcome, nil
}

func (h *AccountHandler) sendCode(ctx context.Context) (AccountOutcome, error) {
	user, err := h.signIn.TwoFactorUser(ctx)
	if err != nil {
		return AccountOutcome{}, err
	}
	if user == nil {
		return AccountFailed(FieldError{Message: MsgInvalidCredentials}), nil
	}
	code, err := h.users.GenerateTwoFactorToken(ctx, user, TwoFactorProviderEmail)
	if err != nil {
		return AccountOutcome{}, err
	}
	if err := h.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		return AccountOutcome{}, err
	}
	h.auditUser(ctx, user, models.EventVerificationCodeSent, "verification code sent",
		models.AuditDetails{"provider": TwoFactorProviderEmail})
	return AccountSucceeded(), nil
}

// ActivateAccount redeems an activation token and confirms the email.
func (h *AccountHandler) ActivateAccount(ctx context.Context, cmd ActivateAccountCommand) (AccountOutcome, error) {
	outcome, err := h.withUserByID(ctx, cmd.UserID, func(user *models.User) (AccountOutcome, error) {
		result, err := h.users.ConfirmEmail(ctx, user, cmd.Token)
		if err != nil {
			return AccountOutcome{}, err
		}
		if !result.Succeeded {
			return AccountFailed(fieldErrors("", result.Errors)...), nil
		}
		h.auditUser(ctx, user, models.EventAccountActivated, "account activated", nil)
		return AccountSucceeded(), nil
	})
	if err != nil {
		return AccountOutcome{}, wrapFatal(MsgActivateAccountFault, err)
	}
	return outcome, nil
}

// ResetPassword redeems a reset token and sets the new password.
func (h *AccountHandler) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) (AccountOutcome, error) {
	outcome, err := h.withUserByEmail(ctx, cmd.Email, func(user *models.User) (AccountOutcome, error) {
		result, err := h.users.ResetPassword(ctx, user, cmd.Token, cmd.Password)
		if err != nil {
			return AccountOutcome{}, err
		}
		if !result.Succeeded {
			return AccountFailed(fieldErrors("", result.Errors)...), nil
		}
		h.auditUser(ctx, user, models.EventPasswordReset, "password reset", nil)
		return AccountSucceeded(), nil
	})
	if err != nil {
		return AccountOutcome{}, wrapFatal(MsgResetPasswordFault, err)
	}
	return outcome, nil
}

// SendAccountActivation mails a fresh activation link.
func (h *AccountHandler) SendAccountActivation(ctx context.Context, cmd SendAccountActivationCommand) (AccountOutcome, error) {
	outcome, err := h.withUserByEmail(ctx, cmd.Email, func(user *models.User) (AccountOutcome, error) {
		token, err := h.users.GenerateEmailConfirmationToken(ctx, user)
		if err != nil {
			return AccountOutcome{}, err
		}
		link := h.link("/activate", url.Values{"uid": {user.ID}, "token": {token}})
		if err := h.mailer.SendAccountActivation(ctx, user.Email, link); err != nil {
			return AccountOutcome{}, err
		}
		h.auditUser(ctx, user, models.EventActivationLinkSent, "activation link sent", nil)
		return AccountSucceeded(), nil
	})
	if err != nil {
		return AccountOutcome{}, wrapFatal(MsgSendActivationFault, err)
	}
	return outcome, nil
}

// SendPasswordReset mails a password-reset link.
func (h *AccountHandler) SendPasswordReset(ctx context.Context, cmd SendPasswordResetCommand) (AccountOutcome, error) {
	outcome, err := h.withUserByEmail(ctx, cmd.Email, func(user *models.User) (AccountOutcome, error) {
		token, err := h.users.GeneratePasswordResetToken(ctx, user)
		if err != nil {
			return AccountOutcome{}, err
		}
		link := h.link("/reset-password", url.Values{"email": {user.Email}, "token": {token}})
		if err := h.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
			return AccountOutcome{}, err
		}
		h.auditUser(ctx, user, models.EventPasswordResetRequested, "password reset requested", nil)
		return AccountSucceeded(), nil
	})
	if err != nil {
		return AccountOutcome{}, wrapFatal(MsgSendPasswordResetFault, err)
	}
	return outcome, nil
}

// link builds an emailed deep link. Activation links carry uid+token
// because activation redeems by user id; reset links carry email+token
// because the reset form posts the address back with the new password.
func (h *AccountHandler) link(path string, query url.Values) string {
	return h.baseURL + path + "?" + query.Encode()
}

func (h *AccountHandler) auditUser(ctx context.Context, user *models.User, eventType models.EventType, action string, details models.AuditDetails) {
	h.audit.Log(ctx, core.AuditEvent{
		Type:          eventType,
		Severity:      models.SeverityInfo,
		ActorUserID:   user.ID,
		ActorUsername: user.Email,
		ResourceType:  models.ResourceUser,
		ResourceID:    user.ID,
		ResourceName:  user.DisplayName,
		Action:        action,
		Details:       details,
		Success:       true,
	})
}
