package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// sessionExternalState holds the anti-forgery nonce between the redirect
// to the provider and the callback.
const sessionExternalState = "external_state"

// ExternalHandler runs the external-provider sign-in flow: redirect out
// with a state nonce, verify it on the way back, and map the reported
// identity onto a local account. A provider identity never creates an
// account; it only signs in an existing active one.
type ExternalHandler struct {
	providers map[string]*auth.ExternalProvider
	users     core.UserManager
	audit     core.AuditRecorder
	metrics   core.Recorder
}

// NewExternalHandler creates the external sign-in controller.
func NewExternalHandler(
	providers map[string]*auth.ExternalProvider,
	users core.UserManager,
	audit core.AuditRecorder,
	metrics core.Recorder,
) *ExternalHandler {
	return &ExternalHandler{
		providers: providers,
		users:     users,
		audit:     audit,
		metrics:   metrics,
	}
}

// Begin stores a state nonce in the session and redirects to the
// provider's authorization endpoint.
func (h *ExternalHandler) Begin(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		renderError(c, http.StatusNotFound, "Unknown sign-in provider")
		return
	}

	state, err := util.CryptoRandomString(32)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionExternalState, state)
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.Redirect(http.StatusFound, provider.AuthURL(state))
}

// Callback completes the provider sign-in. The state check burns the
// nonce either way, so a replayed callback fails.
func (h *ExternalHandler) Callback(c *gin.Context) {
	started := time.Now()

	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		renderError(c, http.StatusNotFound, "Unknown sign-in provider")
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(sessionExternalState).(string)
	session.Delete(sessionExternalState)
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if expected == "" || c.Query("state") != expected {
		h.rejectSignIn(c, started, provider, "", "state mismatch")
		return
	}

	ident, err := provider.Identity(c, c.Query("code"))
	if err != nil {
		log.Printf("[External] %s sign-in failed: %v", provider.DisplayName(), err)
		h.rejectSignIn(c, started, provider, "", "code exchange failed")
		return
	}

	user, err := h.users.FindByEmail(c, ident.Email)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if user == nil || !user.IsActive() || user.IsLockedOut(time.Now()) {
		h.rejectSignIn(c, started, provider, ident.Email, "no active local account")
		return
	}

	if err := setSessionPrincipal(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.audit.Log(c, core.AuditEvent{
		Type:          models.EventSignInSuccess,
		Severity:      models.SeverityInfo,
		ActorUserID:   user.ID,
		ActorUsername: user.Email,
		ResourceType:  models.ResourceUser,
		ResourceID:    user.ID,
		ResourceName:  user.DisplayName,
		Action:        "external sign-in",
		Details:       models.AuditDetails{"provider": ident.Provider, "subject": ident.Subject},
		Success:       true,
	})
	h.metrics.RecordSignInAttempt(identity.SignInStateSucceeded.String(), time.Since(started))

	c.Redirect(http.StatusFound, identity.DefaultReturnURL)
}

// rejectSignIn records the failed attempt and re-renders the sign-in
// form. The user sees one generic message; the reason stays in the
// audit trail.
func (h *ExternalHandler) rejectSignIn(c *gin.Context, started time.Time, provider *auth.ExternalProvider, email, reason string) {
	h.audit.Log(c, core.AuditEvent{
		Type:          models.EventSignInFailure,
		Severity:      models.SeverityWarning,
		ActorUsername: email,
		ResourceType:  models.ResourceUser,
		Action:        "external sign-in rejected",
		Details:       models.AuditDetails{"provider": provider.Name()},
		ErrorMessage:  reason,
	})
	h.metrics.RecordSignInAttempt(identity.SignInStateFailed.String(), time.Since(started))

	c.HTML(http.StatusUnauthorized, "sign_in.html", merge(baseProps(c), gin.H{
		"providers": h.providers,
		"error":     "Sign-in with " + provider.DisplayName() + " did not complete. Try again or use your password.",
	}))
}
