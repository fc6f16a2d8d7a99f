package metrics

import (
	"time"

	"github.com/go-aegis/aegis/internal/core"
)

// Compile-time interface check.
var _ core.Recorder = (*Noop)(nil)

// Noop is a recorder that discards everything. Used when metrics are
// disabled and in tests.
type Noop struct{}

// NewNoop creates a no-op recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) RecordSignInAttempt(result string, duration time.Duration) {}
func (Noop) RecordTwoFactorChallenge(result string)                    {}
func (Noop) RecordSignUp(success bool)                                 {}
func (Noop) RecordSignOut()                                            {}
func (Noop) RecordMailSent(kind string, success bool)                  {}
func (Noop) RecordRateLimited(path string)                             {}
