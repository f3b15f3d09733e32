package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO profiles (id, username, name, birth_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Username, p.Name, nullDate(p))
	if err != nil {
		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", p.ID.String()))
		return store.NewStoreError("profile", "create", "insert failed", MapError(err))
	}

	log.Info("profile created", slog.String("profile_id", p.ID.String()))
	return nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *PostgresProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, username, name, birth_date
		FROM profiles
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetByUsername implements store.ProfileStore.GetByUsername
func (s *PostgresProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `
		SELECT id, username, name, birth_date
		FROM profiles
		WHERE username = $1
	`
	return s.getOne(ctx, query, username)
}

func (s *PostgresProfileStore) getOne(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found")
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile", slog.String("error", err.Error()))
		return nil, store.NewStoreError("profile", "get", "query failed", MapError(err))
	}

	if p.BookIDs, err = s.bookIDs(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// List implements store.ProfileStore.List
func (s *PostgresProfileStore) List(ctx context.Context, limit, offset int) ([]*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, name, birth_date
		FROM profiles
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list profiles", slog.String("error", err.Error()))
		return nil, store.NewStoreError("profile", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	profiles := make([]*domain.Profile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, store.NewStoreError("profile", "list", "scan failed", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "list", "row iteration failed", err)
	}

	for _, p := range profiles {
		if p.BookIDs, err = s.bookIDs(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// Count implements store.ProfileStore.Count
func (s *PostgresProfileStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, store.NewStoreError("profile", "count", "query failed", MapError(err))
	}
	return n, nil
}

// Update implements store.ProfileStore.Update
func (s *PostgresProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE profiles
		SET username = $1, name = $2, birth_date = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, p.Username, p.Name, nullDate(p), p.ID)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", p.ID.String()))
		return store.NewStoreError("profile", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrProfileNotFound)
}

// Delete implements store.ProfileStore.Delete
func (s *PostgresProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return store.NewStoreError("profile", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrProfileNotFound); err != nil {
		return err
	}

	log.Info("profile deleted", slog.String("profile_id", id.String()))
	return nil
}

// AddBook implements store.ProfileStore.AddBook
func (s *PostgresProfileStore) AddBook(ctx context.Context, profileID, bookID uuid.UUID) error {
	query := `
		INSERT INTO profile_books (profile_id, book_id)
		VALUES ($1, $2)
	`
	if _, err := s.db.ExecContext(ctx, query, profileID, bookID); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrBookAlreadyLinked) {
			return mapped
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to link book",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID.String()),
			slog.String("book_id", bookID.String()))
		return store.NewStoreError("profile", "add book", "insert failed", mapped)
	}
	return nil
}

// RemoveBook implements store.ProfileStore.RemoveBook
func (s *PostgresProfileStore) RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (bool, error) {
	query := `DELETE FROM profile_books WHERE profile_id = $1 AND book_id = $2`

	result, err := s.db.ExecContext(ctx, query, profileID, bookID)
	if err != nil {
		return false, store.NewStoreError("profile", "remove book", "delete failed", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, store.NewStoreError("profile", "remove book", "rows affected failed", err)
	}
	return n > 0, nil
}

// ClearBooks implements store.ProfileStore.ClearBooks
func (s *PostgresProfileStore) ClearBooks(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profile_books WHERE profile_id = $1`, profileID); err != nil {
		return store.NewStoreError("profile", "clear books", "delete failed", MapError(err))
	}
	return nil
}

// bookIDs reads the profile's side of the association.
func (s *PostgresProfileStore) bookIDs(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT book_id
		FROM profile_books
		WHERE profile_id = $1
		ORDER BY added_at, book_id
	`
	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, store.NewStoreError("profile", "get books", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("profile", "get books", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "get books", "row iteration failed", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var birth sql.NullTime
	if err := row.Scan(&p.ID, &p.Username, &p.Name, &birth); err != nil {
		return nil, err
	}
	if birth.Valid {
		b := birth.Time
		p.BirthDate = &b
	}
	p.BookIDs = []uuid.UUID{}
	return &p, nil
}

func nullDate(p *domain.Profile) sql.NullTime {
	if p.BirthDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p.BirthDate, Valid: true}
}
