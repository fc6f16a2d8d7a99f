package identity

import (
	"context"
	"strings"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
)

// SignUpHandler drives registration: duplicate check, principal creation,
// then best-effort default-role assignment. Role assignment happens after
// the principal is committed, so a role failure reports Failed while the
// account still exists.
type SignUpHandler struct {
	users   core.UserManager
	authz   core.AuthorizationResolver
	audit   core.AuditRecorder
	metrics core.Recorder
}

// NewSignUpHandler creates a sign-up handler.
func NewSignUpHandler(users core.UserManager, authz core.AuthorizationResolver, audit core.AuditRecorder, metrics core.Recorder) *SignUpHandler {
	return &SignUpHandler{users: users, authz: authz, audit: audit, metrics: metrics}
}

// Handle registers a new principal.
func (h *SignUpHandler) Handle(ctx context.Context, cmd SignUpCommand) (SignUpOutcome, error) {
	outcome, err := h.handle(ctx, cmd)
	if err != nil {
		return SignUpOutcome{}, wrapFatal(MsgSignUpFault, err)
	}
	h.metrics.RecordSignUp(outcome.Succeeded())
	return outcome, nil
}

func (h *SignUpHandler) handle(ctx context.Context, cmd SignUpCommand) (SignUpOutcome, error) {
	returnURL, _, err := resolveReturnURL(ctx, h.authz, cmd.ReturnURL)
	if err != nil {
		return SignUpOutcome{}, err
	}

	existing, err := h.users.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return SignUpOutcome{}, err
	}
	if existing != nil {
		return SignUpFailed(FieldError{Field: "Email", Message: MsgEmailRegistered}), nil
	}

	user := &models.User{
		Email:       cmd.Email,
		DisplayName: displayNameFromEmail(cmd.Email),
	}
	result, err := h.users.Create(ctx, user, cmd.Password)
	if err != nil {
		return SignUpOutcome{}, err
	}
	if !result.Succeeded {
		h.audit.Log(ctx, core.AuditEvent{
			Type:          models.EventUserRegistrationFailed,
			Severity:      models.SeverityWarning,
			ActorUsername: cmd.Email,
			ResourceType:  models.ResourceUser,
			Action:        "registration rejected",
			Details:       models.AuditDetails{"email": cmd.Email, "violations": violationCodes(result.Errors)},
		})
		return SignUpFailed(fieldErrors("", result.Errors)...), nil
	}

	h.audit.Log(ctx, core.AuditEvent{
		Type:          models.EventUserRegistered,
		Severity:      models.SeverityInfo,
		ActorUserID:   user.ID,
		ActorUsername: user.Email,
		ResourceType:  models.ResourceUser,
		ResourceID:    user.ID,
		ResourceName:  user.DisplayName,
		Action:        "user registered",
		Success:       true,
	})

	roles, err := h.users.DefaultRoles(ctx)
	if err != nil {
		return SignUpOutcome{}, err
	}
	if len(roles) == 0 {
		return SignUpSucceeded(user.ID, returnURL), nil
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	res, err := h.users.AddToRoles(ctx, user, names)
	if err != nil {
		return SignUpOutcome{}, err
	}
	if !res.Succeeded {
		// The principal is already committed and stays committed. The caller
		// sees the violations; an operator fixes the roles later.
		h.audit.Log(ctx, core.AuditEvent{
			Type:          models.EventRoleAssignmentFailed,
			Severity:      models.SeverityError,
			ActorUserID:   user.ID,
			ActorUsername: user.Email,
			ResourceType:  models.ResourceRole,
			ResourceName:  strings.Join(names, ","),
			Action:        "default role assignment failed",
			Details:       models.AuditDetails{"roles": strings.Join(names, ","), "violations": violationCodes(res.Errors)},
		})
		return SignUpFailed(fieldErrors("", res.Errors)...), nil
	}

	h.audit.Log(ctx, core.AuditEvent{
		Type:          models.EventRolesAssigned,
		Severity:      models.SeverityInfo,
		ActorUserID:   user.ID,
		ActorUsername: user.Email,
		ResourceType:  models.ResourceRole,
		ResourceName:  strings.Join(names, ","),
		Action:        "default roles assigned",
		Details:       models.AuditDetails{"roles": strings.Join(names, ",")},
		Success:       true,
	})
	return SignUpSucceeded(user.ID, returnURL), nil
}

func violationCodes(errs []core.IdentityError) string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return strings.Join(codes, ",")
}

// displayNameFromEmail derives an initial display name from the mailbox
// part of the address. Users can change it later.
func displayNameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at]
}
