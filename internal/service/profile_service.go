package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// ProfileUpdate is a partial profile update. Blank strings and a nil birth
// date leave the field unchanged; a nil or empty BookIDs leaves the book set
// unchanged.
type ProfileUpdate struct {
	Username  string
	Name      string
	BirthDate *time.Time
	BookIDs   []uuid.UUID
}

// ProfileService manages profiles and their book collections.
type ProfileService struct {
	db       *sql.DB
	profiles store.ProfileStore
	books    store.BookStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	db *sql.DB,
	profiles store.ProfileStore,
	books store.BookStore,
	logger *slog.Logger,
) (*ProfileService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if profiles == nil || books == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileService{
		db:       db,
		profiles: profiles,
		books:    books,
		logger:   logger.With(slog.String("component", "profile_service")),
		now:      time.Now,
	}, nil
}

// List returns a page of profiles and the total number of profiles.
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]*domain.Profile, int, error) {
	profiles, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, NewServiceError("profile", "list", err)
	}
	total, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, 0, NewServiceError("profile", "count", err)
	}
	return profiles, total, nil
}

// Get returns the profile with id.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.load(ctx, s.profiles, id)
}

// GetByUsername returns the profile owned by username. It backs the
// "current user" lookup, where the username comes from the request identity.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, NewServiceError("profile", "get", err)
	}
	return p, nil
}

// Update applies a partial update and, when BookIDs is non-empty, replaces
// the book set. Both happen in one transaction.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var out *domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles, books := s.profiles.WithTx(tx), s.books.WithTx(tx)

		p, err := s.load(ctx, profiles, id)
		if err != nil {
			return err
		}

		if strings.TrimSpace(upd.Username) != "" {
			p.Username = upd.Username
		}
		if strings.TrimSpace(upd.Name) != "" {
			p.Name = upd.Name
		}
		if upd.BirthDate != nil {
			p.BirthDate = upd.BirthDate
		}
		if err := p.Validate(s.now()); err != nil {
			return domain.Invalid(err)
		}

		if err := profiles.Update(ctx, p); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(ErrProfileNotFound, id)
			}
			return NewServiceError("profile", "update", err)
		}

		if err := s.replaceBookSet(ctx, profiles, books, id, upd.BookIDs); err != nil {
			return err
		}

		out, err = s.load(ctx, profiles, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("profile updated", slog.String("profile_id", id.String()))
	return out, nil
}

// Delete removes the profile. Its join rows go with it; the credential of
// the account is left in place.
func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(ErrProfileNotFound, id)
		}
		return NewServiceError("profile", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("profile deleted",
		slog.String("profile_id", id.String()))
	return nil
}

// AddBook puts bookID in the profile's collection.
func (s *ProfileService) AddBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error) {
	var out *domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles, books := s.profiles.WithTx(tx), s.books.WithTx(tx)

		p, err := s.load(ctx, profiles, profileID)
		if err != nil {
			return err
		}
		if err := s.requireBook(ctx, books, bookID); err != nil {
			return err
		}
		if p.OwnsBook(bookID) {
			return ErrBookAlreadyOwned
		}

		if err := profiles.AddBook(ctx, profileID, bookID); err != nil {
			if errors.Is(err, store.ErrBookAlreadyLinked) {
				return ErrBookAlreadyOwned
			}
			return NewServiceError("profile", "add book", err)
		}

		out, err = s.load(ctx, profiles, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("book added to collection",
		slog.String("profile_id", profileID.String()),
		slog.String("book_id", bookID.String()))
	return out, nil
}

// RemoveBook takes bookID out of the profile's collection. A book missing
// from the catalog is ErrBookNotFound; a catalog book the profile does not
// own is ErrBookNotOwned.
func (s *ProfileService) RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error) {
	var out *domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles, books := s.profiles.WithTx(tx), s.books.WithTx(tx)

		p, err := s.load(ctx, profiles, profileID)
		if err != nil {
			return err
		}
		if err := s.requireBook(ctx, books, bookID); err != nil {
			return err
		}
		if len(p.BookIDs) == 0 {
			return ErrBookNotOwned
		}

		removed, err := profiles.RemoveBook(ctx, profileID, bookID)
		if err != nil {
			return NewServiceError("profile", "remove book", err)
		}
		if !removed {
			return ErrBookNotOwned
		}

		out, err = s.load(ctx, profiles, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("book removed from collection",
		slog.String("profile_id", profileID.String()),
		slog.String("book_id", bookID.String()))
	return out, nil
}

// ReplaceBookSet swaps the profile's collection for ids. A nil or empty
// list leaves the collection as it is. Ids that are not in the catalog are
// skipped without error.
func (s *ProfileService) ReplaceBookSet(
	ctx context.Context,
	profileID uuid.UUID,
	ids []uuid.UUID,
) (*domain.Profile, error) {
	var out *domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles, books := s.profiles.WithTx(tx), s.books.WithTx(tx)

		if _, err := s.load(ctx, profiles, profileID); err != nil {
			return err
		}
		if err := s.replaceBookSet(ctx, profiles, books, profileID, ids); err != nil {
			return err
		}

		var err error
		out, err = s.load(ctx, profiles, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProfileService) replaceBookSet(
	ctx context.Context,
	profiles store.ProfileStore,
	books store.BookStore,
	profileID uuid.UUID,
	ids []uuid.UUID,
) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profiles.ClearBooks(ctx, profileID); err != nil {
		return NewServiceError("profile", "replace books", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, bookID := range ids {
		if _, dup := seen[bookID]; dup {
			continue
		}
		seen[bookID] = struct{}{}

		if _, err := books.GetByID(ctx, bookID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Debug("skipping unknown book in replacement set",
					slog.String("book_id", bookID.String()))
				continue
			}
			return NewServiceError("profile", "replace books", err)
		}
		if err := profiles.AddBook(ctx, profileID, bookID); err != nil {
			return NewServiceError("profile", "replace books", err)
		}
	}
	return nil
}

func (s *ProfileService) load(ctx context.Context, profiles store.ProfileStore, id uuid.UUID) (*domain.Profile, error) {
	p, err := profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(ErrProfileNotFound, id)
		}
		return nil, NewServiceError("profile", "get", err)
	}
	return p, nil
}

func (s *ProfileService) requireBook(ctx context.Context, books store.BookStore, id uuid.UUID) error {
	if _, err := books.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(ErrBookNotFound, id)
		}
		return NewServiceError("book", "get", err)
	}
	return nil
}
