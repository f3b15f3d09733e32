package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// ISBNLookup resolves an ISBN against an external catalog.
type ISBNLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*openlibrary.BookInfo, error)
}

// BookService manages the book catalog.
type BookService struct {
	books  store.BookStore
	lookup ISBNLookup
	logger *slog.Logger
}

// NewBookService creates a BookService. lookup may be nil, in which case
// ISBN lookups only consult the local catalog.
func NewBookService(books store.BookStore, lookup ISBNLookup, logger *slog.Logger) (*BookService, error) {
	if books == nil {
		return nil, domain.NewValidationError("books", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookService{
		books:  books,
		lookup: lookup,
		logger: logger.With(slog.String("component", "book_service")),
	}, nil
}

// List returns a filtered page of books and the number of matching books.
func (s *BookService) List(
	ctx context.Context,
	filter domain.BookFilter,
	limit, offset int,
) ([]*domain.Book, int, error) {
	books, err := s.books.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, NewServiceError("book", "list", err)
	}
	total, err := s.books.Count(ctx, filter)
	if err != nil {
		return nil, 0, NewServiceError("book", "count", err)
	}
	return books, total, nil
}

// Get returns the book with id.
func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(ErrBookNotFound, id)
		}
		return nil, NewServiceError("book", "get", err)
	}
	return b, nil
}

// Create adds a book built from input under a new id.
func (s *BookService) Create(ctx context.Context, input domain.BookPatch) (*domain.Book, error) {
	b := &domain.Book{ID: uuid.New()}
	input.Apply(b)

	if err := b.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, NewServiceError("book", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("book created",
		slog.String("book_id", b.ID.String()))
	return b, nil
}

// Update applies a partial update to the book with id.
func (s *BookService) Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (*domain.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(b)
	if err := b.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	if err := s.books.Update(ctx, b); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(ErrBookNotFound, id)
		}
		return nil, NewServiceError("book", "update", err)
	}
	return b, nil
}

// Delete removes the book with id from the catalog and from every collection.
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(ErrBookNotFound, id)
		}
		return NewServiceError("book", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("book deleted",
		slog.String("book_id", id.String()))
	return nil
}

// Owners returns the ids of the profiles that have the book in their collection.
func (s *BookService) Owners(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.books.OwnerIDs(ctx, id)
	if err != nil {
		return nil, NewServiceError("book", "owners", err)
	}
	return ids, nil
}

// LookupByISBN finds a book by ISBN in the local catalog and, failing that,
// in the external catalog. An external hit is imported as a new book and
// reported with imported=true. External failures are logged and reported
// as ErrBookNotFound.
func (s *BookService) LookupByISBN(ctx context.Context, isbn string) (*openlibrary.BookInfo, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, false, domain.NewValidationError("isbn", "cannot be empty", domain.ErrValidation)
	}

	local, err := s.books.GetByISBN(ctx, isbn)
	switch {
	case err == nil:
		return bookInfoFromBook(local), false, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, NewServiceError("book", "lookup isbn", err)
	}

	if s.lookup == nil {
		return nil, false, ErrBookNotFound
	}

	info, err := s.lookup.LookupISBN(ctx, isbn)
	if err != nil {
		if !errors.Is(err, openlibrary.ErrNotFound) {
			log.Error("external isbn lookup failed",
				slog.String("isbn", isbn),
				slog.String("error", err.Error()))
		}
		return nil, false, ErrBookNotFound
	}

	b := &domain.Book{
		ID:        uuid.New(),
		Title:     info.Title,
		Subtitle:  info.Subtitle,
		Author:    info.FirstAuthor(),
		Publisher: info.FirstPublisher(),
		Year:      info.PublishDate,
		Pages:     info.NumberOfPages,
		ISBN:      isbn,
	}
	if err := b.Validate(); err != nil {
		log.Warn("external isbn record cannot be imported",
			slog.String("isbn", isbn),
			slog.String("error", err.Error()))
		return nil, false, ErrBookNotFound
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, false, NewServiceError("book", "import", err)
	}

	log.Info("book imported from external catalog",
		slog.String("book_id", b.ID.String()),
		slog.String("isbn", isbn))
	return info, true, nil
}

func bookInfoFromBook(b *domain.Book) *openlibrary.BookInfo {
	info := &openlibrary.BookInfo{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Publishers:    []string{},
		PublishDate:   b.Year,
		NumberOfPages: b.Pages,
		Authors:       []string{},
	}
	if b.Publisher != "" {
		info.Publishers = append(info.Publishers, b.Publisher)
	}
	if b.Author != "" {
		info.Authors = append(info.Authors, b.Author)
	}
	return info
}
