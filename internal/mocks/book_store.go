package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockBookStore is a testify mock of store.BookStore.
// WithTx returns the mock itself so expectations hold inside transactions.
type MockBookStore struct {
	mock.Mock
}

var _ store.BookStore = (*MockBookStore)(nil)

// Create is a mock implementation of store.BookStore.Create
func (m *MockBookStore) Create(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// GetByID is a mock implementation of store.BookStore.GetByID
func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Book); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByISBN is a mock implementation of store.BookStore.GetByISBN
func (m *MockBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	args := m.Called(ctx, isbn)
	if b, ok := args.Get(0).(*domain.Book); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.BookStore.List
func (m *MockBookStore) List(
	ctx context.Context,
	filter domain.BookFilter,
	limit, offset int,
) ([]*domain.Book, error) {
	args := m.Called(ctx, filter, limit, offset)
	if b, ok := args.Get(0).([]*domain.Book); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// Count is a mock implementation of store.BookStore.Count
func (m *MockBookStore) Count(ctx context.Context, filter domain.BookFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// Update is a mock implementation of store.BookStore.Update
func (m *MockBookStore) Update(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// Delete is a mock implementation of store.BookStore.Delete
func (m *MockBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// OwnerIDs is a mock implementation of store.BookStore.OwnerIDs
func (m *MockBookStore) OwnerIDs(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, bookID)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx is a mock implementation of store.BookStore.WithTx
func (m *MockBookStore) WithTx(*sql.Tx) store.BookStore {
	return m
}
