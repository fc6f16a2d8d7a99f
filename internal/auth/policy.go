package auth

import (
	"fmt"
	"unicode"

	"github.com/go-aegis/aegis/internal/core"
)

// validatePassword checks the password against the configured policy and
// returns one IdentityError per violation.
func validatePassword(password string, minLength int) []core.IdentityError {
	var violations []core.IdentityError

	if len(password) < minLength {
		violations = append(violations, core.IdentityError{
			Code:        CodePasswordTooShort,
			Description: fmt.Sprintf("Password must be at least %d characters long.", minLength),
		})
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		violations = append(violations, core.IdentityError{
			Code:        CodePasswordRequiresLetter,
			Description: "Password must contain at least one letter.",
		})
	}
	if !hasDigit {
		violations = append(violations, core.IdentityError{
			Code:        CodePasswordRequiresDigit,
			Description: "Password must contain at least one digit.",
		})
	}

	return violations
}
