package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the portions of the provider's access token the portal cares
// about.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates provider-issued access tokens locally using the shared
// HS256 secret, so authenticated actions can identify the caller without a
// round trip to the auth service.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
