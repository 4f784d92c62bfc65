// FILE: logflume/src/internal/auth/token.go
package auth

import (
	"fmt"
	"sync"
	"time"

	"logflume/src/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Minimum remaining lifetime before a cached token is refreshed
const refreshMargin = 30 * time.Second

// TokenSource mints HS256 bearer tokens for outbound sink requests.
// Tokens are cached and reissued when they approach expiry.
type TokenSource struct {
	signingKey []byte
	subject    string
	ttl        time.Duration

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenSource creates a token source from auth options.
func NewTokenSource(opts *config.AuthOptions) (*TokenSource, error) {
	if opts == nil || opts.SigningKey == "" {
		return nil, fmt.Errorf("auth requires a signing key")
	}

	ttl := time.Duration(opts.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &TokenSource{
		signingKey: []byte(opts.SigningKey),
		subject:    opts.Subject,
		ttl:        ttl,
	}, nil
}

// Token returns a valid signed token, minting a fresh one when the cached
// token is missing or close to expiry.
func (ts *TokenSource) Token() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expires) > refreshMargin {
		return ts.token, nil
	}

	now := time.Now()
	expires := now.Add(ts.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   ts.subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	ts.token = signed
	ts.expires = expires
	return signed, nil
}
