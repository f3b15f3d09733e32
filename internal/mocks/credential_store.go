package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore is a testify mock of store.CredentialStore.
// WithTx returns the mock itself so expectations hold inside transactions.
type MockCredentialStore struct {
	mock.Mock
}

var _ store.CredentialStore = (*MockCredentialStore)(nil)

// Create is a mock implementation of store.CredentialStore.Create
func (m *MockCredentialStore) Create(ctx context.Context, c *domain.Credential) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// GetByUsername is a mock implementation of store.CredentialStore.GetByUsername
func (m *MockCredentialStore) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	args := m.Called(ctx, username)
	if c, ok := args.Get(0).(*domain.Credential); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsByUsername is a mock implementation of store.CredentialStore.ExistsByUsername
func (m *MockCredentialStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// ExistsByEmail is a mock implementation of store.CredentialStore.ExistsByEmail
func (m *MockCredentialStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// WithTx is a mock implementation of store.CredentialStore.WithTx
func (m *MockCredentialStore) WithTx(*sql.Tx) store.CredentialStore {
	return m
}
