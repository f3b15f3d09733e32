package auth

import (
	"context"
	"time"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 30 * time.Minute

// TokenCodec defines operations for issuing and verifying signed bearer tokens.
type TokenCodec interface {
	// Issue creates a signed token for subject carrying the comma-joined
	// authorities claim.
	Issue(ctx context.Context, subject string, authorities []string) (string, error)

	// Verify checks signature, issuer, expiry and not-before and returns the
	// decoded claims. Every failure wraps ErrInvalidToken.
	Verify(ctx context.Context, token string) (*Claims, error)

	// ExtractSubject returns the subject of already verified claims.
	ExtractSubject(claims *Claims) string
}

// Claims is the decoded content of a verified token.
type Claims struct {
	Subject     string    `json:"sub,omitempty"`
	Issuer      string    `json:"iss,omitempty"`
	Authorities []string  `json:"authorities"`
	IssuedAt    time.Time `json:"iat,omitempty"`
	ExpiresAt   time.Time `json:"exp,omitempty"`
	NotBefore   time.Time `json:"nbf,omitempty"`
	ID          string    `json:"jti,omitempty"`
}
