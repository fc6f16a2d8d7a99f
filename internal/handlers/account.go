package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AccountHandler is the HTTP layer over registration and the supporting
// account flows (activation, password reset, lockout, resend code).
type AccountHandler struct {
	signUp  *identity.SignUpHandler
	account *identity.AccountHandler
}

// NewAccountHandler creates the account controller.
func NewAccountHandler(signUp *identity.SignUpHandler, account *identity.AccountHandler) *AccountHandler {
	return &AccountHandler{signUp: signUp, account: account}
}

// SignUpPage renders the registration form.
func (h *AccountHandler) SignUpPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(middleware.SessionUserID) != nil {
		c.Redirect(http.StatusFound, identity.DefaultReturnURL)
		return
	}
	c.HTML(http.StatusOK, "sign_up.html", merge(baseProps(c), gin.H{
		"return_url": c.Query("return_url"),
	}))
}

// SignUp handles the registration form submission. A new account is not
// signed in: it first has to be activated through the mailed link.
func (h *AccountHandler) SignUp(c *gin.Context) {
	cmd := identity.SignUpCommand{
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
		ReturnURL: c.PostForm("return_url"),
	}

	outcome, err := h.signUp.Handle(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "sign_up.html", merge(baseProps(c), gin.H{
			"return_url": cmd.ReturnURL,
			"email":      cmd.Email,
			"errors":     errorMessages(outcome.Errors()),
		}))
		return
	}

	// Best effort: a mail failure here must not undo the registration.
	if _, err := h.account.SendAccountActivation(c, identity.SendAccountActivationCommand{Email: cmd.Email}); err != nil {
		c.HTML(http.StatusOK, "not_active.html", merge(baseProps(c), gin.H{
			"email":  cmd.Email,
			"errors": []string{"The activation mail could not be sent. Use the resend button below."},
		}))
		return
	}

	c.Redirect(http.StatusFound, "/not-active?email="+url.QueryEscape(cmd.Email))
}

// LockedPage shows when a locked account unlocks.
func (h *AccountHandler) LockedPage(c *gin.Context) {
	result, err := h.account.LockedTime(c, identity.LockedTimeQuery{UserID: c.Query("uid")})
	if err != nil {
		renderFlowError(c, err)
		return
	}
	props := merge(baseProps(c), gin.H{})
	if result.Succeeded() && result.LockedUntil() != nil {
		props["locked_until"] = result.LockedUntil().Format("15:04:05 MST")
	}
	c.HTML(http.StatusOK, "locked.html", props)
}

// NotActivePage tells the user their account needs activation.
func (h *AccountHandler) NotActivePage(c *gin.Context) {
	c.HTML(http.StatusOK, "not_active.html", merge(baseProps(c), gin.H{
		"email": c.Query("email"),
	}))
}

// ResendActivation mails a fresh activation link.
func (h *AccountHandler) ResendActivation(c *gin.Context) {
	email := c.PostForm("email")
	outcome, err := h.account.SendAccountActivation(c, identity.SendAccountActivationCommand{Email: email})
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "not_active.html", merge(baseProps(c), gin.H{
			"email":  email,
			"errors": errorMessages(outcome.Errors()),
		}))
		return
	}
	c.HTML(http.StatusOK, "not_active.html", merge(baseProps(c), gin.H{
		"email": email,
		"sent":  true,
	}))
}

// Activate redeems the activation link from the mail.
func (h *AccountHandler) Activate(c *gin.Context) {
	cmd := identity.ActivateAccountCommand{
		UserID: c.Query("uid"),
		Token:  c.Query("token"),
	}
	outcome, err := h.account.ActivateAccount(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "activate.html", merge(baseProps(c), gin.H{
			"errors": errorMessages(outcome.Errors()),
		}))
		return
	}
	c.HTML(http.StatusOK, "activate.html", merge(baseProps(c), gin.H{
		"activated": true,
	}))
}

// ForgotPasswordPage renders the reset-request form.
func (h *AccountHandler) ForgotPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "forgot_password.html", baseProps(c))
}

// ForgotPassword mails a password-reset link.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	email := c.PostForm("email")
	outcome, err := h.account.SendPasswordReset(c, identity.SendPasswordResetCommand{Email: email})
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "forgot_password.html", merge(baseProps(c), gin.H{
			"email":  email,
			"errors": errorMessages(outcome.Errors()),
		}))
		return
	}
	c.HTML(http.StatusOK, "forgot_password.html", merge(baseProps(c), gin.H{
		"sent": true,
	}))
}

// ResetPasswordPage renders the new-password form reached from the mail.
func (h *AccountHandler) ResetPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reset_password.html", merge(baseProps(c), gin.H{
		"email": c.Query("email"),
		"token": c.Query("token"),
	}))
}

// ResetPassword redeems the reset token and sets the new password.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	cmd := identity.ResetPasswordCommand{
		Email:    c.PostForm("email"),
		Token:    c.PostForm("token"),
		Password: c.PostForm("password"),
	}
	outcome, err := h.account.ResetPassword(c, cmd)
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.HTML(http.StatusBadRequest, "reset_password.html", merge(baseProps(c), gin.H{
			"email":  cmd.Email,
			"token":  cmd.Token,
			"errors": errorMessages(outcome.Errors()),
		}))
		return
	}
	c.Redirect(http.StatusFound, "/sign-in")
}

// SendCode mails a fresh two-step verification code.
func (h *AccountHandler) SendCode(c *gin.Context) {
	outcome, err := h.account.SendCode(c, identity.SendCodeCommand{})
	if err != nil {
		renderFlowError(c, err)
		return
	}
	if !outcome.Succeeded() {
		c.Redirect(http.StatusFound, "/sign-in")
		return
	}
	c.HTML(http.StatusOK, "two_step.html", merge(baseProps(c), gin.H{
		"return_url": c.PostForm("return_url"),
		"sent":       true,
	}))
}
