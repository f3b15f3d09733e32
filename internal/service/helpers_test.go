package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// newTxDB returns a sqlmock database used only for transaction boundaries;
// stores are mocked separately.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

type authenticatorFunc func(ctx context.Context, username, password string) (*auth.Identity, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, username, password string) (*auth.Identity, error) {
	return f(ctx, username, password)
}
