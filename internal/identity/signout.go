package identity

import (
	"context"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
)

// SignOutHandler drives the sign-out flow. The acting principal arrives on
// the command; a request without one fails softly instead of pretending a
// sign-out happened.
type SignOutHandler struct {
	users   core.UserManager
	signIn  core.SignInService
	logout  core.LogoutResolver
	audit   core.AuditRecorder
	metrics core.Recorder
}

// NewSignOutHandler creates a sign-out handler.
func NewSignOutHandler(users core.UserManager, signIn core.SignInService, logout core.LogoutResolver, audit core.AuditRecorder, metrics core.Recorder) *SignOutHandler {
	return &SignOutHandler{users: users, signIn: signIn, logout: logout, audit: audit, metrics: metrics}
}

// Handle signs the principal out. When SignOutAllSessions is set, the
// security stamp is rotated before the local session is cleared, so every
// other session dies no later than this one.
func (h *SignOutHandler) Handle(ctx context.Context, cmd SignOutCommand) (SignOutOutcome, error) {
	outcome, err := h.handle(ctx, cmd)
	if err != nil {
		return SignOutOutcome{}, wrapFatal(MsgSignOutFault, err)
	}
	if outcome.Succeeded() {
		h.metrics.RecordSignOut()
	}
	return outcome, nil
}

func (h *SignOutHandler) handle(ctx context.Context, cmd SignOutCommand) (SignOutOutcome, error) {
	logoutID := cmd.LogoutID
	if logoutID == "" {
		id, err := h.logout.CreateLogoutContext(ctx)
		if err != nil {
			return SignOutOutcome{}, err
		}
		logoutID = id
	}

	if cmd.Principal == nil || cmd.Principal.SubjectID == "" {
		return SignOutFailed(FieldError{Message: MsgNoSignedInUser}), nil
	}

	if cmd.SignOutAllSessions {
		user, err := h.users.FindByID(ctx, cmd.Principal.SubjectID)
		if err != nil {
			return SignOutOutcome{}, err
		}
		if user == nil {
			return SignOutFailed(FieldError{Message: MsgNoSignedInUser}), nil
		}
		result, err := h.users.UpdateSecurityStamp(ctx, user)
		if err != nil || !result.Succeeded {
			// Stamp rotation must precede the local sign-out; without it the
			// other sessions would stay alive, so the whole request fails.
			return SignOutFailed(FieldError{Message: MsgSignOutAllFailed}), nil
		}
		h.audit.Log(ctx, core.AuditEvent{
			Type:          models.EventSecurityStampRotated,
			Severity:      models.SeverityInfo,
			ActorUserID:   user.ID,
			ActorUsername: user.Email,
			ResourceType:  models.ResourceUser,
			ResourceID:    user.ID,
			ResourceName:  user.DisplayName,
			Action:        "security stamp rotated on global sign-out",
			Success:       true,
		})
	}

	if cmd.ForgetClient {
		if err := h.signIn.ForgetTwoFactorClient(ctx); err != nil {
			return SignOutOutcome{}, err
		}
	}

	if err := h.signIn.SignOut(ctx); err != nil {
		return SignOutOutcome{}, err
	}

	h.audit.Log(ctx, core.AuditEvent{
		Type:          models.EventSignOut,
		Severity:      models.SeverityInfo,
		ActorUserID:   cmd.Principal.SubjectID,
		ActorUsername: cmd.Principal.DisplayName,
		ResourceType:  models.ResourceSession,
		ResourceID:    logoutID,
		Action:        "user signed out",
		Details: models.AuditDetails{
			"all_sessions":  cmd.SignOutAllSessions,
			"forget_client": cmd.ForgetClient,
		},
		Success: true,
	})

	redirect := DefaultReturnURL
	req, err := h.logout.LogoutContext(ctx, logoutID)
	if err != nil {
		return SignOutOutcome{}, err
	}
	if req != nil && req.PostLogoutRedirectURI != "" {
		redirect = req.PostLogoutRedirectURI
	}
	return SignOutSucceeded(redirect), nil
}
