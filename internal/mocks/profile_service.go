package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockProfileService is a testify mock of the profile operations used by
// the user handler.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profileResult(args mock.Arguments) (*domain.Profile, error) {
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

// List is a mock implementation of ProfileService.List
func (m *MockProfileService) List(ctx context.Context, limit, offset int) ([]*domain.Profile, int, error) {
	args := m.Called(ctx, limit, offset)
	profiles, _ := args.Get(0).([]*domain.Profile)
	return profiles, args.Int(1), args.Error(2)
}

// Get is a mock implementation of ProfileService.Get
func (m *MockProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, id))
}

// GetByUsername is a mock implementation of ProfileService.GetByUsername
func (m *MockProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, username))
}

// Update is a mock implementation of ProfileService.Update
func (m *MockProfileService) Update(ctx context.Context, id uuid.UUID, upd service.ProfileUpdate) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, id, upd))
}

// Delete is a mock implementation of ProfileService.Delete
func (m *MockProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// AddBook is a mock implementation of ProfileService.AddBook
func (m *MockProfileService) AddBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, profileID, bookID))
}

// RemoveBook is a mock implementation of ProfileService.RemoveBook
func (m *MockProfileService) RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error) {
	return m.profileResult(m.Called(ctx, profileID, bookID))
}
