package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// BookStore defines the interface for catalog persistence.
type BookStore interface {
	// Create saves a new book.
	// Returns validation errors from the domain Book if data is invalid.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// GetByISBN retrieves the first book with the given ISBN.
	// Returns ErrBookNotFound if none matches.
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// List returns a filtered page of books ordered by ID.
	List(ctx context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, error)

	// Count returns the number of books matching filter.
	Count(ctx context.Context, filter domain.BookFilter) (int, error)

	// Update writes every field of book.
	// Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book; its join rows cascade.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// OwnerIDs returns the IDs of the profiles owning the book, read from
	// the join table.
	OwnerIDs(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new BookStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BookStore
}
