package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/mail"
	"github.com/go-aegis/aegis/internal/oidc"
	"github.com/go-aegis/aegis/internal/store"
)

// initializeServices creates the identity services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	caches cacheSet,
) (*auth.Manager, *auth.SignInService, *oidc.AuthorizationResolver, *oidc.LogoutResolver) {
	userManager := auth.NewManager(db, caches.codes, auth.ManagerConfig{
		SigningSecret:      cfg.TokenSigningSecret,
		ActivationTokenTTL: cfg.ActivationTokenTTL,
		PasswordResetTTL:   cfg.PasswordResetTTL,
		TwoFactorCodeTTL:   cfg.TwoFactorCodeTTL,
		MinPasswordLength:  cfg.MinPasswordLength,
	})

	signInService := auth.NewSignInService(
		db,
		caches.codes,
		caches.pending,
		caches.trusted,
		auth.SignInConfig{
			MaxFailedSignIns:    cfg.MaxFailedSignIns,
			LockoutDuration:     cfg.LockoutDuration,
			PendingTwoFactorTTL: cfg.PendingTwoFactorTTL,
			TrustedDeviceTTL:    cfg.TrustedDeviceTTL,
		},
	)

	authorization := oidc.NewAuthorizationResolver(db, cfg.BaseURL)
	logout := oidc.NewLogoutResolver(db, caches.logoutContexts, cfg.LogoutContextTTL)

	return userManager, signInService, authorization, logout
}

// initializeMailer selects the mail delivery implementation
func initializeMailer(cfg *config.Config, recorder core.Recorder) (core.Mailer, error) {
	switch cfg.MailMode {
	case config.MailModeSMTP:
		mailer, err := mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, recorder)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SMTP mailer: %w", err)
		}
		log.Printf("Mail delivery: smtp (host: %s:%d, from: %s)", cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
		return mailer, nil
	default:
		log.Println("Mail delivery: log (messages are written to the application log)")
		return mail.NewLogMailer(), nil
	}
}
