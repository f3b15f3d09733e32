package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockProfileStore is a testify mock of store.ProfileStore.
// WithTx returns the mock itself so expectations hold inside transactions.
type MockProfileStore struct {
	mock.Mock
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

// Create is a mock implementation of store.ProfileStore.Create
func (m *MockProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// GetByID is a mock implementation of store.ProfileStore.GetByID
func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByUsername is a mock implementation of store.ProfileStore.GetByUsername
func (m *MockProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if p, ok := args.Get(0).(*domain.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.ProfileStore.List
func (m *MockProfileStore) List(ctx context.Context, limit, offset int) ([]*domain.Profile, error) {
	args := m.Called(ctx, limit, offset)
	if p, ok := args.Get(0).([]*domain.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Count is a mock implementation of store.ProfileStore.Count
func (m *MockProfileStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Update is a mock implementation of store.ProfileStore.Update
func (m *MockProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// Delete is a mock implementation of store.ProfileStore.Delete
func (m *MockProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AddBook is a mock implementation of store.ProfileStore.AddBook
func (m *MockProfileStore) AddBook(ctx context.Context, profileID, bookID uuid.UUID) error {
	args := m.Called(ctx, profileID, bookID)
	return args.Error(0)
}

// RemoveBook is a mock implementation of store.ProfileStore.RemoveBook
func (m *MockProfileStore) RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (bool, error) {
	args := m.Called(ctx, profileID, bookID)
	return args.Bool(0), args.Error(1)
}

// ClearBooks is a mock implementation of store.ProfileStore.ClearBooks
func (m *MockProfileStore) ClearBooks(ctx context.Context, profileID uuid.UUID) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}

// WithTx is a mock implementation of store.ProfileStore.WithTx
func (m *MockProfileStore) WithTx(*sql.Tx) store.ProfileStore {
	return m
}
