package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// CredentialFinder is the read side of the credential store used for login.
type CredentialFinder interface {
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
}

// Identity is a verified principal. Authorities is always empty: no role
// claims are populated for any account.
type Identity struct {
	Username     string
	PasswordHash string
	Authorities  []string
}

// Authenticator checks a username/password pair against stored credentials.
type Authenticator struct {
	credentials CredentialFinder
	verifier    PasswordVerifier
	logger      *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(
	credentials CredentialFinder,
	verifier PasswordVerifier,
	logger *slog.Logger,
) (*Authenticator, error) {
	if credentials == nil {
		return nil, domain.NewValidationError("credentials", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		credentials: credentials,
		verifier:    verifier,
		logger:      logger.With(slog.String("component", "authenticator")),
	}, nil
}

// Authenticate returns the identity for username when password matches its
// stored hash. It fails with ErrUnknownUser or ErrBadCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	cred, err := a.credentials.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("login for unknown username")
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if err := a.verifier.Compare(cred.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("credential_id", cred.ID.String()))
		return nil, ErrBadCredentials
	}

	return &Identity{
		Username:     cred.Username,
		PasswordHash: cred.HashedPassword,
		Authorities:  []string{},
	}, nil
}
