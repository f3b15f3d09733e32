package mocks

import (
	"context"

	"github.com/phrazzld/bookshelf-api/internal/service/auth"
)

// MockTokenCodec implements auth.TokenCodec for testing
type MockTokenCodec struct {
	// IssueFn allows test cases to mock the Issue behavior
	IssueFn func(ctx context.Context, subject string, authorities []string) (string, error)

	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	VerifyErr   error
	Claims      *auth.Claims
	IssuedFor   []string
	VerifyCalls int
}

var _ auth.TokenCodec = (*MockTokenCodec)(nil)

// Issue implements the auth.TokenCodec interface
func (m *MockTokenCodec) Issue(ctx context.Context, subject string, authorities []string) (string, error) {
	m.IssuedFor = append(m.IssuedFor, subject)
	if m.IssueFn != nil {
		return m.IssueFn(ctx, subject, authorities)
	}
	return m.Token, m.Err
}

// Verify implements the auth.TokenCodec interface
func (m *MockTokenCodec) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	m.VerifyCalls++
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return m.Claims, m.VerifyErr
}

// ExtractSubject implements the auth.TokenCodec interface
func (m *MockTokenCodec) ExtractSubject(claims *auth.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.Subject
}
