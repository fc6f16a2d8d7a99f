package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/metrics"
	"github.com/go-aegis/aegis/internal/mocks"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type signInFixture struct {
	users   *mocks.MockUserManager
	signIn  *mocks.MockSignInService
	authz   *mocks.MockAuthorizationResolver
	audit   *mocks.MockAuditRecorder
	handler *SignInHandler
}

func newSignInFixture(t *testing.T) *signInFixture {
	ctrl := gomock.NewController(t)
	f := &signInFixture{
		users:  mocks.NewMockUserManager(ctrl),
		signIn: mocks.NewMockSignInService(ctrl),
		authz:  mocks.NewMockAuthorizationResolver(ctrl),
		audit:  mocks.NewMockAuditRecorder(ctrl),
	}
	f.handler = NewSignInHandler(f.users, f.signIn, f.authz, f.audit, metrics.NewNoop())
	return f
}

func testUser() *models.User {
	return &models.User{
		ID:             "user-1",
		Email:          "alice@example.com",
		DisplayName:    "alice",
		EmailConfirmed: true,
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	f := newSignInFixture(t)
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	var logged []core.AuditEvent
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e core.AuditEvent) {
		logged = append(logged, e)
	})

	outcome, err := f.handler.Handle(context.Background(), SignInCommand{Email: "ghost@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, SignInStateFailed, outcome.State())
	require.Len(t, outcome.Errors(), 1)
	assert.Equal(t, MsgWrongCredentials, outcome.Errors()[0].Message)

	require.Len(t, logged, 1)
	assert.Equal(t, models.EventSignInFailure, logged[0].Type)
	assert.False(t, logged[0].Success)
}

func TestSignInSucceededKeepsLocalReturnURL(t *testing.T) {
	f := newSignInFixture(t)
	user := testUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "/dashboard").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signIn.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInSucceeded, nil)

	var logged []core.AuditEvent
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e core.AuditEvent) {
		logged = append(logged, e)
	})

	outcome, err := f.handler.Handle(context.Background(), SignInCommand{
		Email: user.Email, Password: "pw", ReturnURL: "/dashboard",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "/dashboard", outcome.ReturnURL())

	// Exactly one success event for the whole flow.
	require.Len(t, logged, 1)
	assert.Equal(t, models.EventSignInSuccess, logged[0].Type)
	assert.True(t, logged[0].Success)
	assert.Equal(t, user.ID, logged[0].ActorUserID)
}

func TestSignInBlankReturnURLFallsBackToRoot(t *testing.T) {
	for _, returnURL := range []string{"", "   "} {
		f := newSignInFixture(t)
		user := testUser()
		f.authz.EXPECT().Resolve(gomock.Any(), returnURL).Return(nil, nil)
		f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.signIn.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInSucceeded, nil)
		f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

		outcome, err := f.handler.Handle(context.Background(), SignInCommand{
			Email: user.Email, Password: "pw", ReturnURL: returnURL,
		})
		require.NoError(t, err)
		assert.Equal(t, DefaultReturnURL, outcome.ReturnURL())
	}
}

func TestSignInAuthorizationContextWins(t *testing.T) {
	f := newSignInFixture(t)
	user := testUser()
	authorizeURL := "/connect/authorize?client_id=aegis-portal"
	f.authz.EXPECT().Resolve(gomock.Any(), authorizeURL).Return(&core.AuthorizationContext{
		ClientID: "aegis-portal", ClientName: "Aegis Portal", ReturnURL: authorizeURL,
	}, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signIn.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", true, true).Return(core.SignInSucceeded, nil)

	var logged core.AuditEvent
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e core.AuditEvent) {
		logged = e
	})

	outcome, err := f.handler.Handle(context.Background(), SignInCommand{
		Email: user.Email, Password: "pw", RememberMe: true, ReturnURL: authorizeURL,
	})
	require.NoError(t, err)
	assert.Equal(t, authorizeURL, outcome.ReturnURL())
	assert.Equal(t, "aegis-portal", logged.Details["client_id"])
}

func TestSignInForeignReturnURLIsFatal(t *testing.T) {
	f := newSignInFixture(t)
	resolveErr := errors.New("return URL belongs to no known client")
	f.authz.EXPECT().Resolve(gomock.Any(), "https://evil.example/cb").Return(nil, resolveErr)

	_, err := f.handler.Handle(context.Background(), SignInCommand{
		Email: "alice@example.com", Password: "pw", ReturnURL: "https://evil.example/cb",
	})
	require.Error(t, err)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgSignInFault, fe.Message())
	assert.ErrorIs(t, err, resolveErr)
}

func TestSignInFatalErrorIsNotDoubleWrapped(t *testing.T) {
	f := newSignInFixture(t)
	inner := NewFlowError(MsgSignInFault, errors.New("db down"))
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, inner)

	_, err := f.handler.Handle(context.Background(), SignInCommand{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	assert.Same(t, inner, err)
}

func TestSignInRequiresTwoStep(t *testing.T) {
	f := newSignInFixture(t)
	user := testUser()
	user.TwoFactorEnabled = true
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.signIn.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(core.SignInTwoFactorRequired, nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.Handle(context.Background(), SignInCommand{Email: user.Email, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, SignInStateRequiresTwoStep, outcome.State())
	assert.Equal(t, user.ID, outcome.UserID())
	assert.Empty(t, outcome.ReturnURL())
}

func TestSignInLockedAndNotActive(t *testing.T) {
	cases := []struct {
		name   string
		status core.SignInStatus
		state  SignInState
		reason string
	}{
		{"locked", core.SignInLockedOut, SignInStateAccountLocked, ReasonLockedOut},
		{"not active", core.SignInNotAllowed, SignInStateAccountNotActive, ReasonEmailNotConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSignInFixture(t)
			user := testUser()
			f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
			f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
			f.signIn.EXPECT().PasswordSignIn(gomock.Any(), user, "pw", false, true).Return(tc.status, nil)

			var logged core.AuditEvent
			f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e core.AuditEvent) {
				logged = e
			})

			outcome, err := f.handler.Handle(context.Background(), SignInCommand{Email: user.Email, Password: "pw"})
			require.NoError(t, err)
			assert.Equal(t, tc.state, outcome.State())
			assert.Equal(t, user.ID, outcome.UserID())
			assert.Equal(t, tc.reason, logged.ErrorMessage)
		})
	}
}

type twoStepFixture struct {
	signIn  *mocks.MockSignInService
	authz   *mocks.MockAuthorizationResolver
	audit   *mocks.MockAuditRecorder
	handler *SignInTwoStepHandler
}

func newTwoStepFixture(t *testing.T) *twoStepFixture {
	ctrl := gomock.NewController(t)
	f := &twoStepFixture{
		signIn: mocks.NewMockSignInService(ctrl),
		authz:  mocks.NewMockAuthorizationResolver(ctrl),
		audit:  mocks.NewMockAuditRecorder(ctrl),
	}
	f.handler = NewSignInTwoStepHandler(f.signIn, f.authz, f.audit, metrics.NewNoop())
	return f
}

func TestTwoStepHappyPath(t *testing.T) {
	f := newTwoStepFixture(t)
	user := testUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "/dashboard").Return(nil, nil)
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(user, nil)
	f.signIn.EXPECT().TwoFactorSignIn(gomock.Any(), TwoFactorProviderEmail, "123456", true, true).
		Return(core.SignInSucceeded, nil)

	var logged core.AuditEvent
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e core.AuditEvent) {
		logged = e
	})

	outcome, err := f.handler.Handle(context.Background(), SignInTwoStepCommand{
		Code: "123456", RememberMe: true, RememberClient: true, ReturnURL: "/dashboard",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "/dashboard", outcome.ReturnURL())
	assert.Equal(t, models.EventSignInSuccess, logged.Type)
}

func TestTwoStepWithoutPendingUser(t *testing.T) {
	f := newTwoStepFixture(t)
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(nil, nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.Handle(context.Background(), SignInTwoStepCommand{Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, SignInStateFailed, outcome.State())
	require.Len(t, outcome.Errors(), 1)
	assert.Equal(t, MsgInvalidCredentials, outcome.Errors()[0].Message)
}

func TestTwoStepWrongCode(t *testing.T) {
	f := newTwoStepFixture(t)
	user := testUser()
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(user, nil)
	f.signIn.EXPECT().TwoFactorSignIn(gomock.Any(), TwoFactorProviderEmail, "000000", false, false).
		Return(core.SignInFailed, nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.Handle(context.Background(), SignInTwoStepCommand{Code: "000000"})
	require.NoError(t, err)
	assert.Equal(t, SignInStateFailed, outcome.State())
	assert.Equal(t, MsgInvalidCredentials, outcome.Errors()[0].Message)
}

func TestTwoStepInfrastructureErrorIsFatal(t *testing.T) {
	f := newTwoStepFixture(t)
	f.authz.EXPECT().Resolve(gomock.Any(), "").Return(nil, nil)
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(nil, errors.New("cache down"))

	_, err := f.handler.Handle(context.Background(), SignInTwoStepCommand{Code: "123456"})
	require.Error(t, err)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgSignInTwoStepFault, fe.Message())
}
