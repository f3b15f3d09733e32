package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// ProfileStore defines the interface for profile persistence, including
// the profile_books association. Both directions of the association are
// read from the same join table.
type ProfileStore interface {
	// Create saves a new profile row. BookIDs is ignored.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile with its book set.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetByUsername retrieves a profile with its book set.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// List returns a page of profiles ordered by ID, with their book sets.
	List(ctx context.Context, limit, offset int) ([]*domain.Profile, error)

	// Count returns the total number of profiles.
	Count(ctx context.Context) (int, error)

	// Update writes username, name and birth date. BookIDs is ignored.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// Delete removes a profile and, through the foreign key, its join rows.
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddBook inserts a (profile, book) join row.
	// Returns ErrBookAlreadyLinked if the row exists.
	AddBook(ctx context.Context, profileID, bookID uuid.UUID) error

	// RemoveBook deletes a join row and reports whether one was removed.
	RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (bool, error)

	// ClearBooks deletes every join row of the profile.
	ClearBooks(ctx context.Context, profileID uuid.UUID) error

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
