package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backend constants
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Mail delivery mode constants
const (
	MailModeSMTP = "smtp"
	MailModeLog  = "log"
)

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// Session settings
	SessionSecret      string
	SessionMaxAge      time.Duration
	SessionIdleTimeout time.Duration // 0 disables idle expiry

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Cache
	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Token settings (activation / reset links, signed with HMAC)
	TokenSigningSecret  string
	ActivationTokenTTL  time.Duration
	PasswordResetTTL    time.Duration
	TwoFactorCodeTTL    time.Duration
	TrustedDeviceTTL    time.Duration
	PendingTwoFactorTTL time.Duration
	LogoutContextTTL    time.Duration

	// Lockout policy
	MaxFailedSignIns int
	LockoutDuration  time.Duration

	// Password policy
	MinPasswordLength int

	// Mail
	MailMode     string // "smtp" or "log"
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Audit
	AuditEnabled    bool
	AuditBufferSize int
	AuditRetention  time.Duration

	// External sign-in (GitHub OAuth)
	GitHubSignInEnabled bool
	GitHubClientID      string
	GitHubClientSecret  string

	// Rate limiting (sign-in endpoints)
	RateLimitEnabled         bool
	SignInPerMinute          int
	RateLimitStore           string // "memory" or "redis"
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", "aegis.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		IsProduction: getEnv("ENVIRONMENT", "development") == "production",

		SessionSecret:      getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge:      getEnvDuration("SESSION_MAX_AGE", 12*time.Hour),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 1*time.Hour),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		CacheBackend:  getEnv("CACHE_BACKEND", CacheBackendMemory),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		TokenSigningSecret:  getEnv("TOKEN_SIGNING_SECRET", "token-secret-change-in-production"),
		ActivationTokenTTL:  getEnvDuration("ACTIVATION_TOKEN_TTL", 48*time.Hour),
		PasswordResetTTL:    getEnvDuration("PASSWORD_RESET_TTL", 2*time.Hour),
		TwoFactorCodeTTL:    getEnvDuration("TWO_FACTOR_CODE_TTL", 10*time.Minute),
		TrustedDeviceTTL:    getEnvDuration("TRUSTED_DEVICE_TTL", 30*24*time.Hour),
		PendingTwoFactorTTL: getEnvDuration("PENDING_TWO_FACTOR_TTL", 10*time.Minute),
		LogoutContextTTL:    getEnvDuration("LOGOUT_CONTEXT_TTL", 15*time.Minute),

		MaxFailedSignIns: getEnvInt("MAX_FAILED_SIGN_INS", 5),
		LockoutDuration:  getEnvDuration("LOCKOUT_DURATION", 15*time.Minute),

		MinPasswordLength: getEnvInt("MIN_PASSWORD_LENGTH", 8),

		MailMode:     getEnv("MAIL_MODE", MailModeLog),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@localhost"),

		AuditEnabled:    getEnvBool("AUDIT_ENABLED", true),
		AuditBufferSize: getEnvInt("AUDIT_BUFFER_SIZE", 1000),
		AuditRetention:  getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),

		GitHubSignInEnabled: getEnvBool("GITHUB_SIGN_IN_ENABLED", false),
		GitHubClientID:      getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret:  getEnv("GITHUB_CLIENT_SECRET", ""),

		RateLimitEnabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
		SignInPerMinute:          getEnvInt("SIGN_IN_PER_MINUTE", 10),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", CacheBackendMemory),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 10*time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Validate checks the configuration for invalid or insecure values.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("SERVER_ADDR must not be empty")
	}
	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.CacheBackend != CacheBackendMemory && c.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("unsupported cache backend: %s", c.CacheBackend)
	}
	if c.MailMode != MailModeSMTP && c.MailMode != MailModeLog {
		return fmt.Errorf("unsupported mail mode: %s", c.MailMode)
	}
	if c.MaxFailedSignIns < 1 {
		return fmt.Errorf("MAX_FAILED_SIGN_INS must be at least 1")
	}
	if c.MinPasswordLength < 6 {
		return fmt.Errorf("MIN_PASSWORD_LENGTH must be at least 6")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if len(c.TokenSigningSecret) < 16 {
		return fmt.Errorf("TOKEN_SIGNING_SECRET must be at least 16 characters")
	}
	return nil
}

// IsDefaultSecret reports whether the given secret still carries a
// development default. Used at startup to warn loudly.
func IsDefaultSecret(secret string) bool {
	return strings.Contains(secret, "change-in-production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
