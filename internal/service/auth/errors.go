package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid, the signature doesn't
	// match, or the issuer differs from the configured one.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future).
	ErrTokenNotYetValid = fmt.Errorf("%w: token not yet valid", ErrInvalidToken)
)

// Credential verification errors. Both wrap ErrAuthenticationFailed so the
// HTTP boundary can map them with a single check.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnknownUser is returned when no credential matches the username.
	ErrUnknownUser = fmt.Errorf("%w: user does not exist", ErrAuthenticationFailed)

	// ErrBadCredentials is returned when the password does not match the stored hash.
	ErrBadCredentials = fmt.Errorf("%w: invalid password", ErrAuthenticationFailed)
)
