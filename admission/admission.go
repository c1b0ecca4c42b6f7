// Package admission mints and checks the bearer tokens a peer presents
// when it dials the relay.
package admission

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrNoSecret     = eris.New("token secret is empty")
	ErrInvalidToken = eris.New("invalid token")
)

// Mint signs a token for subject valid for ttl
func Mint(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", eris.Wrap(err, "sign token")
	}
	return token, nil
}

// Verify checks the signature and expiry of token and returns its subject
func Verify(secret []byte, token string) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", eris.Wrapf(ErrInvalidToken, "%v", err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
