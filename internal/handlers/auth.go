package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/middleware"
	"github.com/go-aegis/aegis/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler is the thin HTTP layer over the sign-in, two-step, and
// sign-out flows. All business decisions live in the identity handlers;
// this layer parses forms, maps outcomes onto redirects and views, and
// manages the cookie session.
type AuthHandler struct {
	signIn    *identity.SignInHandler
	twoStep   *identity.SignInTwoStepHandler
	signOut   *identity.SignOutHandler
	users     core.UserManager
	signInSvc core.SignInService
	logout    core.LogoutResolver
}

// NewAuthHandler creates the sign-in/sign-out controller.
func NewAuthHandler(
	signIn *identity.SignInHandler,
	twoStep *identity.SignInTwoStepHandler,
	signOut *identity.SignOutHandler,
	users core.UserManager,
	signInSvc core.SignInService,
	logout core.LogoutResolver,
) *AuthHandler {
	return &AuthHandler{
		signIn:    signIn,
		twoStep:   twoStep,
		signOut:   signOut,
		users:     users,
		signInSvc: signInSvc,
		logout:    logout,
	}
}

// SignInPageWithProviders renders the sign-in form with links to the
// configured external sign-in providers.
func (h *AuthHandler) SignInPageWithProviders(c *gin.Context, providers map[string]*auth.ExternalProvider) {
	session := sessions.Default(c)
	if session.Get(middleware.SessionUserID) != nil {
		c.Redirect(http.StatusFound, identity.DefaultReturnURL)
		return
	}
	c.HTML(http.StatusOK, "sign_in.html", merge(baseProps(c), gin.H{
		"return_url": c.Query("return_url"),
		"error":      c.Query("error"),
		"providers":  providers,
	}))
}

// SignIn handles the sign-in form submission.
func (h *AuthHandler) SignIn(c *gin.Context) {
	cmd := identity.SignInCommand{
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		RememberMe: c.PostForm("remember_me") == "on",
		ReturnURL:  c.PostForm("return_url"),
	}

	outcome, err := h.signIn.Handle(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}

	switch outcome.State() {
	case identity.SignInStateSucceeded:
		if !h.establishSession(c, cmd.Email) {
			return
		}
		c.Redirect(http.StatusFound, outcome.ReturnURL())
	case identity.SignInStateRequiresTwoStep:
		target := "/sign-in/two-step"
		if cmd.ReturnURL != "" {
			target += "?return_url=" + url.QueryEscape(cmd.ReturnURL)
		}
		c.Redirect(http.StatusFound, target)
	case identity.SignInStateAccountLocked:
		c.Redirect(http.StatusFound, "/locked?uid="+url.QueryEscape(outcome.UserID()))
	case identity.SignInStateAccountNotActive:
		c.Redirect(http.StatusFound, "/not-active?uid="+url.QueryEscape(outcome.UserID()))
	default:
		c.HTML(http.StatusUnauthorized, "sign_in.html", merge(baseProps(c), gin.H{
			"return_url": cmd.ReturnURL,
			"email":      cmd.Email,
			"errors":     errorMessages(outcome.Errors()),
		}))
	}
}

// TwoStepPage renders the second-factor form.
func (h *AuthHandler) TwoStepPage(c *gin.Context) {
	user, err := h.signInSvc.TwoFactorUser(c)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if user == nil {
		c.Redirect(http.StatusFound, "/sign-in")
		return
	}
	c.HTML(http.StatusOK, "two_step.html", merge(baseProps(c), gin.H{
		"return_url": c.Query("return_url"),
	}))
}

// TwoStep handles the second-factor form submission.
func (h *AuthHandler) TwoStep(c *gin.Context) {
	// Capture the pending user before the handler burns the pending state.
	pending, err := h.signInSvc.TwoFactorUser(c)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	cmd := identity.SignInTwoStepCommand{
		Code:           c.PostForm("code"),
		RememberMe:     c.PostForm("remember_me") == "on",
		RememberClient: c.PostForm("remember_client") == "on",
		ReturnURL:      c.PostForm("return_url"),
	}

	outcome, err := h.twoStep.Handle(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}

	switch outcome.State() {
	case identity.SignInStateSucceeded:
		if pending == nil || !h.establishSession(c, pending.Email) {
			renderError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}
		c.Redirect(http.StatusFound, outcome.ReturnURL())
	case identity.SignInStateAccountLocked:
		c.Redirect(http.StatusFound, "/locked?uid="+url.QueryEscape(outcome.UserID()))
	case identity.SignInStateAccountNotActive:
		c.Redirect(http.StatusFound, "/not-active?uid="+url.QueryEscape(outcome.UserID()))
	default:
		c.HTML(http.StatusUnauthorized, "two_step.html", merge(baseProps(c), gin.H{
			"return_url": cmd.ReturnURL,
			"errors":     errorMessages(outcome.Errors()),
		}))
	}
}

// SignOutPage renders the sign-out confirmation, or skips it when the
// logout context says no prompt is needed.
func (h *AuthHandler) SignOutPage(c *gin.Context) {
	logoutID := c.Query("logout_id")
	if logoutID != "" {
		req, err := h.logout.LogoutContext(c, logoutID)
		if err != nil {
			renderError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}
		if req != nil && !req.ShowSignOutPrompt {
			h.performSignOut(c, logoutID)
			return
		}
	}
	c.HTML(http.StatusOK, "sign_out.html", merge(baseProps(c), gin.H{
		"logout_id": logoutID,
	}))
}

// SignOut handles the sign-out form submission.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.performSignOut(c, c.PostForm("logout_id"))
}

// EndSession is the entry point for relying-party initiated sign-out. It
// registers a logout context for the calling client and hands off to the
// sign-out flow under the issued id.
func (h *AuthHandler) EndSession(c *gin.Context) {
	logoutID, err := h.logout.RegisterClientLogout(c, c.Query("client_id"), c.Query("post_logout_redirect_uri"))
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/sign-out?logout_id="+url.QueryEscape(logoutID))
}

func (h *AuthHandler) performSignOut(c *gin.Context, logoutID string) {
	cmd := identity.SignOutCommand{
		LogoutID:           logoutID,
		SignOutAllSessions: c.PostForm("all_sessions") == "on",
		ForgetClient:       c.PostForm("forget_client") == "on",
		Principal:          principalFromSession(c),
	}

	outcome, err := h.signOut.Handle(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "sign_out.html", merge(baseProps(c), gin.H{
			"logout_id": logoutID,
			"errors":    errorMessages(outcome.Errors()),
		}))
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	c.Redirect(http.StatusFound, outcome.PostLogoutRedirectURI())
}

// establishSession stores the signed-in user in the cookie session along
// with the security stamp used for later revalidation.
func (h *AuthHandler) establishSession(c *gin.Context, email string) bool {
	user, err := h.users.FindByEmail(c, email)
	if err != nil || user == nil {
		renderError(c, http.StatusInternalServerError, "Failed to create session")
		return false
	}
	if err := setSessionPrincipal(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to create session")
		return false
	}
	return true
}

// setSessionPrincipal writes the signed-in user into the cookie session.
// Shared between the credential flow and external-provider callbacks.
func setSessionPrincipal(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, user.ID)
	session.Set(middleware.SessionUsername, user.DisplayName)
	session.Set(middleware.SessionSecurityStamp, user.SecurityStamp)
	return session.Save()
}

func principalFromSession(c *gin.Context) *identity.Principal {
	session := sessions.Default(c)
	userID, _ := session.Get(middleware.SessionUserID).(string)
	if userID == "" {
		return nil
	}
	displayName, _ := session.Get(middleware.SessionUsername).(string)
	return &identity.Principal{SubjectID: userID, DisplayName: displayName}
}
