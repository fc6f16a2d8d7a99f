package bootstrap

import (
	"github.com/go-aegis/aegis/internal/audit"
	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/handlers"
	"github.com/go-aegis/aegis/internal/identity"
	"github.com/go-aegis/aegis/internal/oidc"
)

// handlerSet holds all HTTP handlers, the configured external sign-in
// providers, and the user manager the auth middleware revalidates
// sessions against
type handlerSet struct {
	auth      *handlers.AuthHandler
	account   *handlers.AccountHandler
	external  *handlers.ExternalHandler
	providers map[string]*auth.ExternalProvider
	users     core.UserManager
}

// initializeHandlers creates the identity command handlers and the HTTP
// controllers on top of them
func initializeHandlers(
	cfg *config.Config,
	userManager *auth.Manager,
	signInService *auth.SignInService,
	authorization *oidc.AuthorizationResolver,
	logout *oidc.LogoutResolver,
	mailer core.Mailer,
	auditService *audit.Service,
	recorder core.Recorder,
) handlerSet {
	signIn := identity.NewSignInHandler(userManager, signInService, authorization, auditService, recorder)
	twoStep := identity.NewSignInTwoStepHandler(signInService, authorization, auditService, recorder)
	signOut := identity.NewSignOutHandler(userManager, signInService, logout, auditService, recorder)
	signUp := identity.NewSignUpHandler(userManager, authorization, auditService, recorder)
	account := identity.NewAccountHandler(userManager, signInService, mailer, auditService, cfg.BaseURL)

	providers := initializeExternalProviders(cfg)

	return handlerSet{
		auth:      handlers.NewAuthHandler(signIn, twoStep, signOut, userManager, signInService, logout),
		account:   handlers.NewAccountHandler(signUp, account),
		external:  handlers.NewExternalHandler(providers, userManager, auditService, recorder),
		providers: providers,
		users:     userManager,
	}
}
