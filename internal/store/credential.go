package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// CredentialStore defines the interface for credential persistence.
type CredentialStore interface {
	// Create saves a new credential and stamps its CreatedAt.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness violation.
	Create(ctx context.Context, credential *domain.Credential) error

	// GetByUsername retrieves a credential by its exact username.
	// Returns ErrCredentialNotFound if no credential matches.
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)

	// ExistsByUsername reports whether a credential with username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a credential with email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// WithTx returns a new CredentialStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CredentialStore
}
