package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
)

// hmacTokenCodec is an implementation of TokenCodec using HMAC-SHA256 signing.
type hmacTokenCodec struct {
	signingKey []byte
	issuer     string
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenCodec implements TokenCodec interface
var _ TokenCodec = (*hmacTokenCodec)(nil)

// CodecOption customises a token codec.
type CodecOption func(*hmacTokenCodec)

// WithClock replaces the codec's time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *hmacTokenCodec) {
		if now != nil {
			c.timeFunc = now
		}
	}
}

// NewTokenCodec creates a new token codec using HMAC-SHA256 signing.
func NewTokenCodec(cfg config.AuthConfig, opts ...CodecOption) (TokenCodec, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if strings.TrimSpace(cfg.JWTIssuer) == "" {
		return nil, fmt.Errorf("jwt issuer must not be empty")
	}

	c := &hmacTokenCodec{
		signingKey: []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		lifetime:   TokenLifetime,
		timeFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue creates a signed JWT with subject, issuer and authorities claims.
func (c *hmacTokenCodec) Issue(ctx context.Context, subject string, authorities []string) (string, error) {
	log := logger.FromContext(ctx)
	now := c.timeFunc()

	claims := jwtCustomClaims{
		Authorities: strings.Join(authorities, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(c.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"subject", subject,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// Verify validates a JWT and returns its claims. The underlying jwt error is
// kept in the chain next to the package sentinel.
func (c *hmacTokenCodec) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := c.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrExpiredToken, err)
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrTokenNotYetValid, err)
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			log.Debug("token validation failed: wrong issuer", "error", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	out := &Claims{
		Subject:     claims.Subject,
		Issuer:      claims.Issuer,
		Authorities: splitAuthorities(claims.Authorities),
		ID:          claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.NotBefore != nil {
		out.NotBefore = claims.NotBefore.Time
	}

	log.Debug("token validated successfully",
		"token_id", claims.ID,
		"expiry", out.ExpiresAt)

	return out, nil
}

// ExtractSubject implements TokenCodec.ExtractSubject
func (c *hmacTokenCodec) ExtractSubject(claims *Claims) string {
	if claims == nil {
		return ""
	}
	return claims.Subject
}

func splitAuthorities(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
