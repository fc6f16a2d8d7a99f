package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/metrics"
	"github.com/go-aegis/aegis/internal/mocks"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type webFixture struct {
	users     *mocks.MockUserManager
	signInSvc *mocks.MockSignInService
	authz     *mocks.MockAuthorizationResolver
	logout    *mocks.MockLogoutResolver
	mailer    *mocks.MockMailer
	audit     *mocks.MockAuditRecorder
	providers map[string]*auth.ExternalProvider
	router    *gin.Engine
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &webFixture{
		users:     mocks.NewMockUserManager(ctrl),
		signInSvc: mocks.NewMockSignInService(ctrl),
		authz:     mocks.NewMockAuthorizationResolver(ctrl),
		logout:    mocks.NewMockLogoutResolver(ctrl),
		mailer:    mocks.NewMockMailer(ctrl),
		audit:     mocks.NewMockAuditRecorder(ctrl),
	}
	// Audit is a side channel; these tests do not assert on it.
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()

	noop := metrics.NewNoop()
	signIn := identity.NewSignInHandler(f.users, f.signInSvc, f.authz, f.audit, noop)
	twoStep := identity.NewSignInTwoStepHandler(f.signInSvc, f.authz, f.audit, noop)
	signOut := identity.NewSignOutHandler(f.users, f.signInSvc, f.logout, f.audit, noop)
	signUp := identity.NewSignUpHandler(f.users, f.authz, f.audit, noop)
	account := identity.NewAccountHandler(f.users, f.signInSvc, f.mailer, f.audit, "http://localhost:8080")

	f.providers = map[string]*auth.ExternalProvider{
		"github": auth.NewGitHubProvider("client-id", "client-secret", "http://localhost:8080/auth/callback/github"),
	}

	authWeb := NewAuthHandler(signIn, twoStep, signOut, f.users, f.signInSvc, f.logout)
	acct := NewAccountHandler(signUp, account)
	external := NewExternalHandler(f.providers, f.users, f.audit, noop)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	tmpl, err := templates.Load()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)
	r.Use(sessions.Sessions("aegis_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/sign-in", func(c *gin.Context) { authWeb.SignInPageWithProviders(c, f.providers) })
	r.POST("/sign-in", authWeb.SignIn)
	r.GET("/sign-in/two-step", authWeb.TwoStepPage)
	r.POST("/sign-in/two-step", authWeb.TwoStep)
	r.POST("/sign-in/two-step/send-code", acct.SendCode)
	r.GET("/auth/sign-in/:provider", external.Begin)
	r.GET("/auth/callback/:provider", external.Callback)
	r.GET("/sign-out", authWeb.SignOutPage)
	r.POST("/sign-out", authWeb.SignOut)
	r.GET("/connect/endsession", authWeb.EndSession)
	r.GET("/sign-up", acct.SignUpPage)
	r.POST("/sign-up", acct.SignUp)
	r.GET("/locked", acct.LockedPage)
	r.GET("/not-active", acct.NotActivePage)
	r.POST("/not-active/resend", acct.ResendActivation)
	r.GET("/activate", acct.Activate)
	r.GET("/forgot-password", acct.ForgotPasswordPage)
	r.POST("/forgot-password", acct.ForgotPassword)
	r.GET("/reset-password", acct.ResetPasswordPage)
	r.POST("/reset-password", acct.ResetPassword)

	f.router = r
	return f
}

func postForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, path,
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func webUser() *models.User {
	return &models.User{
		ID:             "user-1",
		Email:          "alice@example.com",
		DisplayName:    "alice",
		SecurityStamp:  "stamp-1",
		EmailConfirmed: true,
	}
}

func TestSignInPageRenders(t *testing.T) {
	f := newWebFixture(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/sign-in", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/sign-in"`)
}

func TestSignInSuccessRedirectsAndSetsSession(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "/dashboard").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil).Times(2)
	f.signInSvc.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInSucceeded, nil)

	w := postForm(f.router, "/sign-in", url.Values{
		"email":      {user.Email},
		"password":   {"pw"},
		"return_url": {"/dashboard"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies(), "session cookie must be set")
}

func TestSignInWrongPasswordRendersForm(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signInSvc.EXPECT().PasswordSignIn(gomock.Any(), user, "bad", false, true).Return(core.SignInFailed, nil)

	w := postForm(f.router, "/sign-in", url.Values{
		"email":    {user.Email},
		"password": {"bad"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), identity.MsgWrongCredentials)
}

func TestSignInLockedRedirectsToLockedPage(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signInSvc.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInLockedOut, nil)

	w := postForm(f.router, "/sign-in", url.Values{
		"email":    {user.Email},
		"password": {"pw"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/locked?uid=user-1", w.Header().Get("Location"))
}

func TestSignInTwoStepRedirect(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	user.TwoFactorEnabled = true
	f.authz.EXPECT().Resolve(gomock.Any(), "/dashboard").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signInSvc.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInTwoFactorRequired, nil)

	w := postForm(f.router, "/sign-in", url.Values{
		"email":      {user.Email},
		"password":   {"pw"},
		"return_url": {"/dashboard"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-in/two-step?return_url=%2Fdashboard", w.Header().Get("Location"))
}

func TestSignInFatalRendersStableMessage(t *testing.T) {
	f := newWebFixture(t)
	f.authz.EXPECT().Resolve(gomock.Any(), "https://evil.example/cb").
		Return(nil, errors.New("return URL belongs to no known client"))

	w := postForm(f.router, "/sign-in", url.Values{
		"email":      {"alice@example.com"},
		"password":   {"pw"},
		"return_url": {"https://evil.example/cb"},
	}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), identity.MsgSignInFault)
}

func TestTwoStepCompletesSignIn(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.signInSvc.EXPECT().TwoFactorUser(gomock.Any()).Return(user, nil).Times(2)
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.signInSvc.EXPECT().TwoFactorSignIn(gomock.Any(), identity.TwoFactorProviderEmail, "123456", false, false).
		Return(core.SignInSucceeded, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)

	w := postForm(f.router, "/sign-in/two-step", url.Values{"code": {"123456"}}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, identity.DefaultReturnURL, w.Header().Get("Location"))
}

func TestSignOutWithoutSessionFails(t *testing.T) {
	f := newWebFixture(t)
	f.logout.EXPECT().CreateLogoutContext(gomock.Any()).Return("lo-1", nil)

	w := postForm(f.router, "/sign-out", url.Values{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), identity.MsgNoSignedInUser)
}

func TestSignUpRedirectsToActivationNotice(t *testing.T) {
	f := newWebFixture(t)
	created := &models.User{ID: "user-2", Email: "bob@example.com", DisplayName: "bob"}

	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	// First lookup is the duplicate check, second backs the activation mail.
	gomock.InOrder(
		f.users.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(nil, nil),
		f.users.EXPECT().FindByEmail(gomock.Any(), "bob@example.com").Return(created, nil),
	)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any(), "Str0ngpass").DoAndReturn(
		func(_ context.Context, user *models.User, _ string) (*core.IdentityResult, error) {
			user.ID = "user-2"
			return core.OkResult(), nil
		})
	f.users.EXPECT().DefaultRoles(gomock.Any()).Return(nil, nil)
	f.users.EXPECT().GenerateEmailConfirmationToken(gomock.Any(), created).Return("tok", nil)
	f.mailer.EXPECT().SendAccountActivation(gomock.Any(), "bob@example.com", gomock.Any()).Return(nil)

	w := postForm(f.router, "/sign-up", url.Values{
		"email":    {"bob@example.com"},
		"password": {"Str0ngpass"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/not-active?email=bob%40example.com", w.Header().Get("Location"))
}

func TestActivateRedeemsToken(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	user.EmailConfirmed = false
	f.users.EXPECT().FindByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().ConfirmEmail(gomock.Any(), user, "tok").Return(core.OkResult(), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/activate?uid=user-1&token=tok", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "active")
}

func TestForgotPasswordSendsLink(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().GeneratePasswordResetToken(gomock.Any(), user).Return("tok", nil)
	f.mailer.EXPECT().SendPasswordReset(gomock.Any(), user.Email, gomock.Any()).Return(nil)

	w := postForm(f.router, "/forgot-password", url.Values{"email": {user.Email}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reset link is on its way")
}

func TestEndSessionRedirectsToSignOut(t *testing.T) {
	f := newWebFixture(t)
	f.logout.EXPECT().
		RegisterClientLogout(gomock.Any(), "aegis-portal", "http://localhost:8080/signed-out").
		Return("lo-9", nil)

	w := getPath(f.router, "/connect/endsession?client_id=aegis-portal&post_logout_redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fsigned-out")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-out?logout_id=lo-9", w.Header().Get("Location"))
}

func TestResetPasswordPagePrefillsFromLink(t *testing.T) {
	f := newWebFixture(t)

	w := getPath(f.router, "/reset-password?email=alice%40example.com&token=tok-2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice@example.com"`)
	assert.Contains(t, w.Body.String(), `value="tok-2"`)
}

func TestResetPasswordRedirectsToSignIn(t *testing.T) {
	f := newWebFixture(t)
	user := webUser()
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().ResetPassword(gomock.Any(), user, "tok", "NewStr0ngpass").Return(core.OkResult(), nil)

	w := postForm(f.router, "/reset-password", url.Values{
		"email":    {user.Email},
		"token":    {"tok"},
		"password": {"NewStr0ngpass"},
	}, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-in", w.Header().Get("Location"))
}
