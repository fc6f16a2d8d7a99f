package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include the Prometheus-based recorder and a no-op.
type Recorder interface {
	RecordSignInAttempt(result string, duration time.Duration)
	RecordTwoFactorChallenge(result string)
	RecordSignUp(success bool)
	RecordSignOut()
	RecordMailSent(kind string, success bool)
	RecordRateLimited(path string)
}
