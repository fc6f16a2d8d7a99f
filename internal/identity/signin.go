package identity

import (
	"context"
	"time"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
)

// SignInHandler drives the first-factor sign-in flow: resolve the return
// URL, verify credentials through the sign-in service, and map the result
// onto a closed outcome.
type SignInHandler struct {
	users   core.UserManager
	signIn  core.SignInService
	authz   core.AuthorizationResolver
	audit   core.AuditRecorder
	metrics core.Recorder
}

// NewSignInHandler creates a sign-in handler.
func NewSignInHandler(users core.UserManager, signIn core.SignInService, authz core.AuthorizationResolver, audit core.AuditRecorder, metrics core.Recorder) *SignInHandler {
	return &SignInHandler{users: users, signIn: signIn, authz: authz, audit: audit, metrics: metrics}
}

// Handle processes one sign-in attempt. Business failures (bad
// credentials, lockout, inactive account) come back inside the outcome;
// a non-nil error always means the flow itself broke.
func (h *SignInHandler) Handle(ctx context.Context, cmd SignInCommand) (SignInOutcome, error) {
	started := time.Now()
	outcome, err := h.handle(ctx, cmd)
	if err != nil {
		return SignInOutcome{}, wrapFatal(MsgSignInFault, err)
	}
	h.metrics.RecordSignInAttempt(outcome.State().String(), time.Since(started))
	return outcome, nil
}

func (h *SignInHandler) handle(ctx context.Context, cmd SignInCommand) (SignInOutcome, error) {
	returnURL, authCtx, err := resolveReturnURL(ctx, h.authz, cmd.ReturnURL)
	if err != nil {
		return SignInOutcome{}, err
	}
	clientID := clientIDOf(authCtx)

	user, err := h.users.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return SignInOutcome{}, err
	}
	if user == nil {
		h.auditFailure(ctx, nil, cmd.Email, clientID, MsgWrongCredentials)
		return SignInFailed(FieldError{Message: MsgWrongCredentials}), nil
	}

	status, err := h.signIn.PasswordSignIn(ctx, user, cmd.Password, cmd.RememberMe, true)
	if err != nil {
		return SignInOutcome{}, err
	}

	switch status {
	case core.SignInSucceeded:
		h.auditSuccess(ctx, user, clientID)
		return SignInSucceeded(returnURL), nil
	case core.SignInTwoFactorRequired:
		h.audit.Log(ctx, core.AuditEvent{
			Type:          models.EventTwoFactorChallenge,
			Severity:      models.SeverityInfo,
			ActorUserID:   user.ID,
			ActorUsername: user.Email,
			ResourceType:  models.ResourceUser,
			ResourceID:    user.ID,
			ResourceName:  user.DisplayName,
			Action:        "two-step verification required",
			Details:       models.AuditDetails{"client_id": clientID},
			Success:       true,
		})
		return SignInRequiresTwoStep(user.ID), nil
	case core.SignInLockedOut:
		h.auditFailure(ctx, user, cmd.Email, clientID, ReasonLockedOut)
		return SignInAccountLocked(user.ID), nil
	case core.SignInNotAllowed:
		h.auditFailure(ctx, user, cmd.Email, clientID, ReasonEmailNotConfirmed)
		return SignInAccountNotActive(user.ID), nil
	default:
		h.auditFailure(ctx, user, cmd.Email, clientID, MsgWrongCredentials)
		return SignInFailed(FieldError{Message: MsgWrongCredentials}), nil
	}
}

func (h *SignInHandler) auditSuccess(ctx context.Context, user *models.User, clientID string) {
	h.audit.Log(ctx, core.AuditEvent{
		Type:          models.EventSignInSuccess,
		Severity:      models.SeverityInfo,
		ActorUserID:   user.ID,
		ActorUsername: user.Email,
		ResourceType:  models.ResourceUser,
		ResourceID:    user.ID,
		ResourceName:  user.DisplayName,
		Action:        "user signed in",
		Details:       models.AuditDetails{"client_id": clientID},
		Success:       true,
	})
}

func (h *SignInHandler) auditFailure(ctx context.Context, user *models.User, email, clientID, reason string) {
	event := core.AuditEvent{
		Type:          models.EventSignInFailure,
		Severity:      models.SeverityWarning,
		ActorUsername: email,
		ResourceType:  models.ResourceUser,
		Action:        "sign-in rejected",
		Details:       models.AuditDetails{"email": email, "client_id": clientID},
		ErrorMessage:  reason,
	}
	if user != nil {
		event.ActorUserID = user.ID
		event.ResourceID = user.ID
		event.ResourceName = user.DisplayName
	}
	h.audit.Log(ctx, event)
}

// SignInTwoStepHandler completes a sign-in that required a second factor.
type SignInTwoStepHandler struct {
	signIn  core.SignInService
	authz   core.AuthorizationResolver
	audit   core.AuditRecorder
	metrics core.Recorder
}

// NewSignInTwoStepHandler creates a two-step sign-in handler.
func NewSignInTwoStepHandler(signIn core.SignInService, authz core.AuthorizationResolver, audit core.AuditRecorder, metrics core.Recorder) *SignInTwoStepHandler {
	return &SignInTwoStepHandler{signIn: signIn, authz: authz, audit: audit, metrics: metrics}
}

// Handle verifies the second-factor code for the session's pending
// two-factor user and maps the result like the first-factor flow.
func (h *SignInTwoStepHandler) Handle(ctx context.Context, cmd SignInTwoStepCommand) (SignInOutcome, error) {
	outcome, err := h.handle(ctx, cmd)
	if err != nil {
		return SignInOutcome{}, wrapFatal(MsgSignInTwoStepFault, err)
	}
	h.metrics.RecordTwoFactorChallenge(outcome.State().String())
	return outcome, nil
}

func (h *SignInTwoStepHandler) handle(ctx context.Context, cmd SignInTwoStepCommand) (SignInOutcome, error) {
	returnURL, authCtx, err := resolveReturnURL(ctx, h.authz, cmd.ReturnURL)
	if err != nil {
		return SignInOutcome{}, err
	}
	clientID := clientIDOf(authCtx)

	user, err := h.signIn.TwoFactorUser(ctx)
	if err != nil {
		return SignInOutcome{}, err
	}
	if user == nil {
		// No pending first factor in this session. Treat like an unknown
		// credential, without leaking whether a sign-in was ever started.
		h.auditFailure(ctx, nil, clientID, MsgInvalidCredentials)
		return SignInFailed(FieldError{Message: MsgInvalidCredentials}), nil
	}

	status, err := h.signIn.TwoFactorSignIn(ctx, TwoFactorProviderEmail, cmd.Code, cmd.RememberMe, cmd.RememberClient)
	if err != nil {
		return SignInOutcome{}, err
	}

	switch status {
	case core.SignInSucceeded:
		h.audit.Log(ctx, core.AuditEvent{
			Type:          models.EventSignInSuccess,
			Severity:      models.SeverityInfo,
			ActorUserID:   user.ID,
			ActorUsername: user.Email,
			ResourceType:  models.ResourceUser,
			ResourceID:    user.ID,
			ResourceName:  user.DisplayName,
			Action:        "user signed in with second factor",
			Details:       models.AuditDetails{"client_id": clientID, "provider": TwoFactorProviderEmail},
			Success:       true,
		})
		return SignInSucceeded(returnURL), nil
	case core.SignInLockedOut:
		h.auditFailure(ctx, user, clientID, ReasonLockedOut)
		return SignInAccountLocked(user.ID), nil
	case core.SignInNotAllowed:
		h.auditFailure(ctx, user, clientID, ReasonEmailNotConfirmed)
		return SignInAccountNotActive(user.ID), nil
	default:
		h.auditFailure(ctx, user, clientID, MsgInvalidCredentials)
		return SignInFailed(FieldError{Message: MsgInvalidCredentials}), nil
	}
}

func (h *SignInTwoStepHandler) auditFailure(ctx context.Context, user *models.User, clientID, reason string) {
	event := core.AuditEvent{
		Type:         models.EventSignInFailure,
		Severity:     models.SeverityWarning,
		ResourceType: models.ResourceUser,
		Action:       "two-step verification rejected",
		Details:      models.AuditDetails{"client_id": clientID, "provider": TwoFactorProviderEmail},
		ErrorMessage: reason,
	}
	if user != nil {
		event.ActorUserID = user.ID
		event.ActorUsername = user.Email
		event.ResourceID = user.ID
		event.ResourceName = user.DisplayName
	}
	h.audit.Log(ctx, event)
}
