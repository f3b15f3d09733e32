package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/postgres"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var credentialColumns = []string{
	"id", "username", "password_hash", "email", "created_at",
	"enabled", "account_non_expired", "account_non_locked", "credentials_non_expired",
}

func newCredential(t *testing.T) *domain.Credential {
	t.Helper()
	c, err := domain.NewCredential(uuid.New(), "reader", "reader@example.com", "$2a$10$hash")
	require.NoError(t, err)
	return c
}

func TestCredentialStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts and stamps created_at", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)
		c := newCredential(t)

		mock.ExpectExec(`INSERT INTO auth_users`).
			WithArgs(c.ID, "reader", "$2a$10$hash", "reader@example.com",
				sqlmock.AnyArg(), true, true, true, true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), c))
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("invalid credential never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)
		c := newCredential(t)
		c.Username = ""

		err := s.Create(context.Background(), c)
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)

		mock.ExpectExec(`INSERT INTO auth_users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "auth_users_username_key"})

		err := s.Create(context.Background(), newCredential(t))
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)

		mock.ExpectExec(`INSERT INTO auth_users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "auth_users_email_key"})

		err := s.Create(context.Background(), newCredential(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("other failures are store errors", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)

		mock.ExpectExec(`INSERT INTO auth_users`).WillReturnError(errors.New("connection reset"))

		err := s.Create(context.Background(), newCredential(t))
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.NotErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestCredentialStore_GetByUsername(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)
		id := uuid.New()
		created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT .+ FROM auth_users WHERE username = \$1`).
			WithArgs("reader").
			WillReturnRows(sqlmock.NewRows(credentialColumns).
				AddRow(id.String(), "reader", "$2a$10$hash", "reader@example.com", created,
					true, true, true, true))

		c, err := s.GetByUsername(context.Background(), "reader")
		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, "$2a$10$hash", c.HashedPassword)
		assert.Equal(t, created, c.CreatedAt)
		assert.True(t, c.Enabled)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCredentialStore(db, nil)

		mock.ExpectQuery(`FROM auth_users`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(credentialColumns))

		_, err := s.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, store.ErrCredentialNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCredentialStore_Exists(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresCredentialStore(db, nil)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM auth_users WHERE username = \$1\)`).
		WithArgs("reader").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM auth_users WHERE email = \$1\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := s.ExistsByUsername(context.Background(), "reader")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.ExistsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCredentialStore_WithTx(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewPostgresCredentialStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("reader").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	found, err := s.WithTx(tx).ExistsByUsername(context.Background(), "reader")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, tx.Rollback())
}
