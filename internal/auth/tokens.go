package auth

import (
	"fmt"
	"time"

	"github.com/go-aegis/aegis/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token minted for one purpose never validates for
// another.
const (
	purposeActivation    = "activate_account"
	purposePasswordReset = "reset_password"
)

// purposeClaims binds a token to a user, a purpose, and the security stamp
// current at mint time. Rotating the stamp invalidates outstanding tokens.
type purposeClaims struct {
	Purpose string `json:"purpose"`
	Stamp   string `json:"stamp"`
	jwt.RegisteredClaims
}

func (m *Manager) mintToken(user *models.User, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := purposeClaims{
		Purpose: purpose,
		Stamp:   user.SecurityStamp,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "aegis",
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// checkToken validates a purpose token for the given user. Any failure,
// including a rotated security stamp, yields ErrInvalidToken.
func (m *Manager) checkToken(user *models.User, tokenString, purpose string) error {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&purposeClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingSecret, nil
		},
		jwt.WithIssuer("aegis"),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(*purposeClaims)
	if !ok {
		return ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.Subject != user.ID || claims.Stamp != user.SecurityStamp {
		return ErrInvalidToken
	}
	return nil
}
