package mocks

import (
	"context"

	"github.com/phrazzld/bookshelf-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockAccountService is a testify mock of the account operations used by
// the auth handler.
type MockAccountService struct {
	mock.Mock
}

// Login is a mock implementation of AccountService.Login
func (m *MockAccountService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if res, ok := args.Get(0).(*service.LoginResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// Register is a mock implementation of AccountService.Register
func (m *MockAccountService) Register(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*service.RegisterResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
