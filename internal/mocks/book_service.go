package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
	"github.com/stretchr/testify/mock"
)

// MockBookService is a testify mock of the catalog operations used by the
// book handler.
type MockBookService struct {
	mock.Mock
}

// List is a mock implementation of BookService.List
func (m *MockBookService) List(
	ctx context.Context,
	filter domain.BookFilter,
	limit, offset int,
) ([]*domain.Book, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	books, _ := args.Get(0).([]*domain.Book)
	return books, args.Int(1), args.Error(2)
}

// Get is a mock implementation of BookService.Get
func (m *MockBookService) Get(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

// Create is a mock implementation of BookService.Create
func (m *MockBookService) Create(ctx context.Context, input domain.BookPatch) (*domain.Book, error) {
	args := m.Called(ctx, input)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

// Update is a mock implementation of BookService.Update
func (m *MockBookService) Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (*domain.Book, error) {
	args := m.Called(ctx, id, patch)
	b, _ := args.Get(0).(*domain.Book)
	return b, args.Error(1)
}

// Delete is a mock implementation of BookService.Delete
func (m *MockBookService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// Owners is a mock implementation of BookService.Owners
func (m *MockBookService) Owners(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// LookupByISBN is a mock implementation of BookService.LookupByISBN
func (m *MockBookService) LookupByISBN(ctx context.Context, isbn string) (*openlibrary.BookInfo, bool, error) {
	args := m.Called(ctx, isbn)
	info, _ := args.Get(0).(*openlibrary.BookInfo)
	return info, args.Bool(1), args.Error(2)
}
