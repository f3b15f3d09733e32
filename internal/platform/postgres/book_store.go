package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

const bookColumns = `id, title, subtitle, author, genre, publisher, year, pages, isbn, image`

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BookStore.Create
func (s *PostgresBookStore) Create(ctx context.Context, b *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := b.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", b.ID.String()))
		return err
	}

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Subtitle, b.Author, b.Genre,
		b.Publisher, b.Year, nullPages(b.Pages), b.ISBN, b.Image,
	)
	if err != nil {
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", b.ID.String()))
		return store.NewStoreError("book", "create", "insert failed", MapError(err))
	}

	log.Info("book created", slog.String("book_id", b.ID.String()))
	return nil
}

// GetByID implements store.BookStore.GetByID
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByISBN implements store.BookStore.GetByISBN
func (s *PostgresBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 ORDER BY id LIMIT 1`
	return s.getOne(ctx, query, isbn)
}

func (s *PostgresBookStore) getOne(ctx context.Context, query string, arg any) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	b, err := scanBook(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found")
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book", slog.String("error", err.Error()))
		return nil, store.NewStoreError("book", "get", "query failed", MapError(err))
	}
	return b, nil
}

// List implements store.BookStore.List
func (s *PostgresBookStore) List(
	ctx context.Context,
	filter domain.BookFilter,
	limit, offset int,
) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := bookFilterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM books%s ORDER BY id LIMIT $%d OFFSET $%d`,
		bookColumns, where, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, store.NewStoreError("book", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := make([]*domain.Book, 0, limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, store.NewStoreError("book", "list", "scan failed", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("book", "list", "row iteration failed", err)
	}
	return books, nil
}

// Count implements store.BookStore.Count
func (s *PostgresBookStore) Count(ctx context.Context, filter domain.BookFilter) (int, error) {
	where, args := bookFilterClause(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&n); err != nil {
		return 0, store.NewStoreError("book", "count", "query failed", MapError(err))
	}
	return n, nil
}

// Update implements store.BookStore.Update
func (s *PostgresBookStore) Update(ctx context.Context, b *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := b.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE books
		SET title = $1, subtitle = $2, author = $3, genre = $4, publisher = $5,
		    year = $6, pages = $7, isbn = $8, image = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(ctx, query,
		b.Title, b.Subtitle, b.Author, b.Genre, b.Publisher,
		b.Year, nullPages(b.Pages), b.ISBN, b.Image, b.ID,
	)
	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", b.ID.String()))
		return store.NewStoreError("book", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrBookNotFound)
}

// Delete implements store.BookStore.Delete
func (s *PostgresBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return store.NewStoreError("book", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		return err
	}

	log.Info("book deleted", slog.String("book_id", id.String()))
	return nil
}

// OwnerIDs implements store.BookStore.OwnerIDs
func (s *PostgresBookStore) OwnerIDs(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT profile_id
		FROM profile_books
		WHERE book_id = $1
		ORDER BY profile_id
	`
	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, store.NewStoreError("book", "get owners", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("book", "get owners", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("book", "get owners", "row iteration failed", err)
	}
	return ids, nil
}

// bookFilterClause builds the WHERE clause for a BookFilter. Placeholders
// are numbered from $1 in the order of the returned args.
func bookFilterClause(f domain.BookFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond, value string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if t := strings.TrimSpace(f.Title); t != "" {
		add(`title ILIKE $%d`, likePattern(t))
	}
	if a := strings.TrimSpace(f.Author); a != "" {
		add(`author ILIKE $%d`, likePattern(a))
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		add(`LOWER(genre) = LOWER($%d)`, g)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var b domain.Book
	var pages sql.NullInt64
	if err := row.Scan(
		&b.ID, &b.Title, &b.Subtitle, &b.Author, &b.Genre,
		&b.Publisher, &b.Year, &pages, &b.ISBN, &b.Image,
	); err != nil {
		return nil, err
	}
	if pages.Valid {
		n := int(pages.Int64)
		b.Pages = &n
	}
	return &b, nil
}

func nullPages(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
