package bootstrap

import (
	"log"

	"github.com/go-aegis/aegis/internal/config"
)

// validateConfiguration validates all configuration settings.
// Development defaults for secrets are tolerated outside production but
// always warned about.
func validateConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	checkSecret(cfg, "SESSION_SECRET", cfg.SessionSecret)
	checkSecret(cfg, "TOKEN_SIGNING_SECRET", cfg.TokenSigningSecret)
}

func checkSecret(cfg *config.Config, name, secret string) {
	if !config.IsDefaultSecret(secret) {
		return
	}
	if cfg.IsProduction {
		log.Fatalf("%s still carries the development default, refusing to start in production", name)
	}
	log.Printf("WARNING: %s is a development default, set a real secret before deploying", name)
}
