package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// PostgresCredentialStore implements the store.CredentialStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCredentialStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresCredentialStore creates a new PostgreSQL implementation of the CredentialStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCredentialStore(db store.DBTX, logger *slog.Logger) *PostgresCredentialStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCredentialStore{
		db:     db,
		logger: logger.With(slog.String("component", "credential_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresCredentialStore implements store.CredentialStore interface
var _ store.CredentialStore = (*PostgresCredentialStore)(nil)

// WithTx implements store.CredentialStore.WithTx
func (s *PostgresCredentialStore) WithTx(tx *sql.Tx) store.CredentialStore {
	return &PostgresCredentialStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// Create implements store.CredentialStore.Create
// The creation timestamp is set here once and never updated.
func (s *PostgresCredentialStore) Create(ctx context.Context, c *domain.Credential) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		log.Warn("credential validation failed during create",
			slog.String("error", err.Error()),
			slog.String("credential_id", c.ID.String()))
		return err
	}

	c.CreatedAt = s.now()

	query := `
		INSERT INTO auth_users (
			id, username, password_hash, email, created_at,
			enabled, account_non_expired, account_non_locked, credentials_non_expired
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		c.ID,
		c.Username,
		c.HashedPassword,
		c.Email,
		c.CreatedAt,
		c.Enabled,
		c.AccountNonExpired,
		c.AccountNonLocked,
		c.CredentialsNonExpired,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Warn("duplicate credential rejected",
				slog.String("credential_id", c.ID.String()),
				slog.String("error", mapped.Error()))
			return mapped
		}
		log.Error("failed to create credential",
			slog.String("error", err.Error()),
			slog.String("credential_id", c.ID.String()))
		return store.NewStoreError("credential", "create", "insert failed", mapped)
	}

	log.Info("credential created", slog.String("credential_id", c.ID.String()))
	return nil
}

// GetByUsername implements store.CredentialStore.GetByUsername
func (s *PostgresCredentialStore) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, password_hash, email, created_at,
		       enabled, account_non_expired, account_non_locked, credentials_non_expired
		FROM auth_users
		WHERE username = $1
	`

	var c domain.Credential
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&c.ID,
		&c.Username,
		&c.HashedPassword,
		&c.Email,
		&c.CreatedAt,
		&c.Enabled,
		&c.AccountNonExpired,
		&c.AccountNonLocked,
		&c.CredentialsNonExpired,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("credential not found")
			return nil, store.ErrCredentialNotFound
		}
		log.Error("failed to get credential by username", slog.String("error", err.Error()))
		return nil, store.NewStoreError("credential", "get", "query failed", MapError(err))
	}

	return &c, nil
}

// ExistsByUsername implements store.CredentialStore.ExistsByUsername
func (s *PostgresCredentialStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM auth_users WHERE username = $1)`, username)
}

// ExistsByEmail implements store.CredentialStore.ExistsByEmail
func (s *PostgresCredentialStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM auth_users WHERE email = $1)`, email)
}

func (s *PostgresCredentialStore) exists(ctx context.Context, query string, arg string) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("existence check failed",
			slog.String("error", err.Error()))
		return false, store.NewStoreError("credential", "exists", "query failed", MapError(err))
	}
	return found, nil
}
