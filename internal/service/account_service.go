package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*auth.Identity, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	JWT      string `json:"jwt"`
	Status   bool   `json:"status"`
}

// RegisterRequest carries everything needed to open an account.
type RegisterRequest struct {
	Name      string
	BirthDate *time.Time
	Username  string
	Password  string
	Email     string
}

// RegisterResult confirms a registration.
type RegisterResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Status   bool   `json:"status"`
}

// AccountService handles login and registration.
type AccountService struct {
	db            *sql.DB
	credentials   store.CredentialStore
	profiles      store.ProfileStore
	authenticator Authenticator
	codec         auth.TokenCodec
	hasher        auth.PasswordHasher
	logger        *slog.Logger
	now           func() time.Time
}

// NewAccountService creates an AccountService.
func NewAccountService(
	db *sql.DB,
	credentials store.CredentialStore,
	profiles store.ProfileStore,
	authenticator Authenticator,
	codec auth.TokenCodec,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) (*AccountService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if credentials == nil || profiles == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if authenticator == nil || codec == nil || hasher == nil {
		return nil, domain.NewValidationError("auth", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		db:            db,
		credentials:   credentials,
		profiles:      profiles,
		authenticator: authenticator,
		codec:         codec,
		hasher:        hasher,
		logger:        logger.With(slog.String("component", "account_service")),
		now:           time.Now,
	}, nil
}

// Login authenticates the user and issues a token for it. Authentication
// failures are returned unchanged.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	username = strings.TrimSpace(username)

	identity, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(ctx, identity.Username, identity.Authorities)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return nil, NewServiceError("account", "login", err)
	}

	log.Info("user logged in", slog.String("username", identity.Username))
	return &LoginResult{
		Username: identity.Username,
		Message:  "User logged in correctly",
		JWT:      token,
		Status:   true,
	}, nil
}

// Register creates the credential and the profile of a new account. Both
// rows share one generated id and are written in a single transaction.
// Username and email are trimmed before the uniqueness checks so they
// match what is stored.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	taken, err := s.credentials.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewServiceError("account", "register", err)
	}
	if taken {
		log.Debug("registration with taken username")
		return nil, ErrUsernameTaken
	}

	taken, err = s.credentials.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewServiceError("account", "register", err)
	}
	if taken {
		log.Debug("registration with taken email")
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.Invalid(err)
	}

	id := uuid.New()
	cred, err := domain.NewCredential(id, req.Username, req.Email, hash)
	if err != nil {
		return nil, domain.Invalid(err)
	}
	profile, err := domain.NewProfile(id, cred.Username, req.Name, req.BirthDate, s.now())
	if err != nil {
		return nil, domain.Invalid(err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.credentials.WithTx(tx).Create(ctx, cred); err != nil {
			return err
		}
		return s.profiles.WithTx(tx).Create(ctx, profile)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, store.ErrEmailExists):
			return nil, ErrEmailTaken
		}
		log.Error("failed to register account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, NewServiceError("account", "register", fmt.Errorf("transaction failed: %w", err))
	}

	log.Info("account registered", slog.String("account_id", id.String()))
	return &RegisterResult{
		Username: cred.Username,
		Email:    cred.Email,
		Message:  "User successfully registered",
		Status:   true,
	}, nil
}
