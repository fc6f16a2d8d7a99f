package mail

import (
	"context"
	"log"

	"github.com/go-aegis/aegis/internal/core"
)

// Compile-time interface check.
var _ core.Mailer = (*LogMailer)(nil)

// LogMailer writes mail to the application log instead of delivering it.
// Used in development and tests.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendAccountActivation(ctx context.Context, to, link string) error {
	log.Printf("[Mail] activation link for %s: %s", to, link)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	log.Printf("[Mail] password reset link for %s: %s", to, link)
	return nil
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	log.Printf("[Mail] verification code for %s: %s", to, code)
	return nil
}
