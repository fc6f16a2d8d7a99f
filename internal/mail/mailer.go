package mail

import (
	"context"
	"fmt"

	"github.com/go-aegis/aegis/internal/core"

	gomail "github.com/wneessen/go-mail"
)

// Message kinds, used for logging and metrics labels.
const (
	KindActivation       = "account_activation"
	KindPasswordReset    = "password_reset"
	KindVerificationCode = "verification_code"
)

// Compile-time interface check.
var _ core.Mailer = (*SMTPMailer)(nil)

// Config carries the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers transactional mail over SMTP.
type SMTPMailer struct {
	client  *gomail.Client
	from    string
	metrics core.Recorder
}

// NewSMTPMailer creates an SMTP mailer. The client is created eagerly so
// misconfiguration surfaces at startup, but connections are dialed per send.
func NewSMTPMailer(cfg Config, metrics core.Recorder) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From, metrics: metrics}, nil
}

// SendAccountActivation mails the account activation link.
func (m *SMTPMailer) SendAccountActivation(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(
		"Welcome to Aegis!\n\n"+
			"Please activate your account by opening the link below:\n\n%s\n\n"+
			"If you did not create this account, you can ignore this message.\n",
		link,
	)
	return m.send(ctx, KindActivation, to, "Activate your account", body)
}

// SendPasswordReset mails the password reset link.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		link,
	)
	return m.send(ctx, KindPasswordReset, to, "Reset your password", body)
}

// SendVerificationCode mails a two-step verification code.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"Your verification code is: %s\n\n"+
			"The code expires shortly. If you did not try to sign in, "+
			"consider changing your password.\n",
		code,
	)
	return m.send(ctx, KindVerificationCode, to, "Your verification code", body)
}

func (m *SMTPMailer) send(ctx context.Context, kind, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	err := m.client.DialAndSendWithContext(ctx, msg)
	if m.metrics != nil {
		m.metrics.RecordMailSent(kind, err == nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send %s mail: %w", kind, err)
	}
	return nil
}
