package metrics

import (
	"time"

	"github.com/go-aegis/aegis/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compile-time interface check.
var _ core.Recorder = (*Metrics)(nil)

// Metrics is the Prometheus-backed recorder.
type Metrics struct {
	signInAttempts      *prometheus.CounterVec
	signInDuration      *prometheus.HistogramVec
	twoFactorChallenges *prometheus.CounterVec
	signUps             *prometheus.CounterVec
	signOuts            prometheus.Counter
	mailSent            *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
}

// New creates and registers the Prometheus collectors.
func New() *Metrics {
	return &Metrics{
		signInAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_sign_in_attempts_total",
			Help: "Sign-in attempts by result",
		}, []string{"result"}),
		signInDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aegis_sign_in_duration_seconds",
			Help:    "Sign-in handler duration by result",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		twoFactorChallenges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_two_factor_challenges_total",
			Help: "Two-factor challenges by result",
		}, []string{"result"}),
		signUps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_sign_ups_total",
			Help: "Sign-up attempts by outcome",
		}, []string{"outcome"}),
		signOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aegis_sign_outs_total",
			Help: "Completed sign-outs",
		}),
		mailSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_mail_sent_total",
			Help: "Transactional mail sends by kind and result",
		}, []string{"kind", "result"}),
		rateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"path"}),
	}
}

func (m *Metrics) RecordSignInAttempt(result string, duration time.Duration) {
	m.signInAttempts.WithLabelValues(result).Inc()
	m.signInDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *Metrics) RecordTwoFactorChallenge(result string) {
	m.twoFactorChallenges.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSignUp(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.signUps.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSignOut() {
	m.signOuts.Inc()
}

func (m *Metrics) RecordMailSent(kind string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.mailSent.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordRateLimited(path string) {
	m.rateLimited.WithLabelValues(path).Inc()
}
