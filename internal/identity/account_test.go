package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type accountFixture struct {
	users   *mocks.MockUserManager
	signIn  *mocks.MockSignInService
	mailer  *mocks.MockMailer
	audit   *mocks.MockAuditRecorder
	handler *AccountHandler
}

func newAccountFixture(t *testing.T) *accountFixture {
	ctrl := gomock.NewController(t)
	f := &accountFixture{
		users:  mocks.NewMockUserManager(ctrl),
		signIn: mocks.NewMockSignInService(ctrl),
		mailer: mocks.NewMockMailer(ctrl),
		audit:  mocks.NewMockAuditRecorder(ctrl),
	}
	f.handler = NewAccountHandler(f.users, f.signIn, f.mailer, f.audit, "http://localhost:8080/")
	return f
}

func TestLockedTime(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	until := time.Now().Add(10 * time.Minute)
	f.users.EXPECT().FindByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().LockoutEnd(gomock.Any(), user).Return(&until, nil)

	result, err := f.handler.LockedTime(context.Background(), LockedTimeQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	require.NotNil(t, result.LockedUntil())
	assert.Equal(t, until, *result.LockedUntil())
}

func TestLockedTimeUnknownUser(t *testing.T) {
	f := newAccountFixture(t)
	f.users.EXPECT().FindByID(gomock.Any(), "ghost").Return(nil, nil)

	result, err := f.handler.LockedTime(context.Background(), LockedTimeQuery{UserID: "ghost"})
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	require.Len(t, result.Errors(), 1)
	assert.Nil(t, result.LockedUntil())
}

func TestSendCode(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(user, nil)
	f.users.EXPECT().GenerateTwoFactorToken(gomock.Any(), user, TwoFactorProviderEmail).Return("654321", nil)
	f.mailer.EXPECT().SendVerificationCode(gomock.Any(), user.Email, "654321").Return(nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.SendCode(context.Background(), SendCodeCommand{})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
}

func TestSendCodeWithoutPendingUser(t *testing.T) {
	f := newAccountFixture(t)
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(nil, nil)

	outcome, err := f.handler.SendCode(context.Background(), SendCodeCommand{})
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, MsgInvalidCredentials, outcome.Errors()[0].Message)
}

func TestSendCodeMailFailureIsFatal(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.signIn.EXPECT().TwoFactorUser(gomock.Any()).Return(user, nil)
	f.users.EXPECT().GenerateTwoFactorToken(gomock.Any(), user, TwoFactorProviderEmail).Return("654321", nil)
	f.mailer.EXPECT().SendVerificationCode(gomock.Any(), user.Email, "654321").Return(errors.New("smtp down"))

	_, err := f.handler.SendCode(context.Background(), SendCodeCommand{})
	require.Error(t, err)

	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, MsgSendCodeFault, fe.Message())
}

func TestActivateAccount(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	user.EmailConfirmed = false
	f.users.EXPECT().FindByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().ConfirmEmail(gomock.Any(), user, "tok").Return(core.OkResult(), nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.ActivateAccount(context.Background(), ActivateAccountCommand{UserID: "user-1", Token: "tok"})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
}

func TestActivateAccountBadToken(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.users.EXPECT().FindByID(gomock.Any(), "user-1").Return(user, nil)
	f.users.EXPECT().ConfirmEmail(gomock.Any(), user, "bad").Return(core.FailedResult(
		core.IdentityError{Code: "invalid_token", Description: "The activation link is invalid or expired"},
	), nil)

	outcome, err := f.handler.ActivateAccount(context.Background(), ActivateAccountCommand{UserID: "user-1", Token: "bad"})
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	require.Len(t, outcome.Errors(), 1)
}

func TestResetPassword(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().ResetPassword(gomock.Any(), user, "tok", "NewStr0ngpass").Return(core.OkResult(), nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.ResetPassword(context.Background(), ResetPasswordCommand{
		Email: user.Email, Token: "tok", Password: "NewStr0ngpass",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)
	f.users.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	outcome, err := f.handler.ResetPassword(context.Background(), ResetPasswordCommand{
		Email: "ghost@example.com", Token: "tok", Password: "NewStr0ngpass",
	})
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	require.Len(t, outcome.Errors(), 1)
	assert.Equal(t, MsgUnknownAccount, outcome.Errors()[0].Message)
}

func TestSendAccountActivationBuildsLink(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().GenerateEmailConfirmationToken(gomock.Any(), user).Return("tok-1", nil)

	var link string
	f.mailer.EXPECT().SendAccountActivation(gomock.Any(), user.Email, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, l string) error {
			link = l
			return nil
		})
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.SendAccountActivation(context.Background(), SendAccountActivationCommand{Email: user.Email})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "http://localhost:8080/activate?token=tok-1&uid=user-1", link)
}

// The reset form posts the address back with the new password, so the
// mailed link must carry the email, not the user id.
func TestSendPasswordResetLinkCarriesEmail(t *testing.T) {
	f := newAccountFixture(t)
	user := testUser()
	f.users.EXPECT().FindByEmail(gomock.Any(), user.Email).Return(user, nil)
	f.users.EXPECT().GeneratePasswordResetToken(gomock.Any(), user).Return("tok-2", nil)
	f.mailer.EXPECT().SendPasswordReset(gomock.Any(), user.Email, "http://localhost:8080/reset-password?email=alice%40example.com&token=tok-2").Return(nil)
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any())

	outcome, err := f.handler.SendPasswordReset(context.Background(), SendPasswordResetCommand{Email: user.Email})
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
}

func TestSendPasswordResetUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)
	f.users.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	outcome, err := f.handler.SendPasswordReset(context.Background(), SendPasswordResetCommand{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
}
