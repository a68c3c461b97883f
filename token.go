package authkit

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionClaims is the wire shape of a session token. The token carries
// identity only; permissions are re-derived from the store on restore so a
// role change invalidates stale grants.
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// issueSessionToken signs an HS256 token for user. rememberMe selects the
// longer configured TTL.
func (e *Engine) issueSessionToken(user *User, rememberMe bool) (string, error) {
	ttl := e.config.Session.TokenTTL
	if rememberMe {
		ttl = e.config.Session.RememberMeTTL
	}
	now := e.now()

	claims := sessionClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    e.config.Session.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(e.config.Session.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// parseSessionToken validates signature, issuer, and expiry and returns the
// subject user ID. All failure modes collapse to ErrTokenInvalid; callers
// must not learn why a token was rejected.
func (e *Engine) parseSessionToken(tokenString string) (string, error) {
	var claims sessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return e.config.Session.SigningKey, nil
		},
		jwt.WithIssuer(e.config.Session.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return e.now() }),
	)
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
