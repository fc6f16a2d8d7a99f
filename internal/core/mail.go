package core

import "context"

// Mailer delivers the transactional messages the identity flows send.
// Delivery guarantees are the implementation's problem; handlers treat a
// send error as fatal for the operation that requested it.
type Mailer interface {
	SendAccountActivation(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
	SendVerificationCode(ctx context.Context, to, code string) error
}
