package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/service"
)

// ProfileService is the profile behavior the user handler needs.
type ProfileService interface {
	List(ctx context.Context, limit, offset int) ([]*domain.Profile, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, id uuid.UUID, upd service.ProfileUpdate) (*domain.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error)
	RemoveBook(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error)
}

// UserHandler handles the profile endpoints.
type UserHandler struct {
	profiles ProfileService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profiles ProfileService, logger *slog.Logger) *UserHandler {
	if profiles == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("profile service cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		profiles: profiles,
		logger:   logger.With(slog.String("component", "user_handler")),
	}
}

// FindAll handles GET /users/findAll.
func (h *UserHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePageRequest(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	profiles, total, err := h.profiles.List(r.Context(), page.Size, page.Offset())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.Map(shared.NewPage(profiles, page, total), profileToResponse))
}

// FindByID handles GET /users/findById/{id}.
func (h *UserHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(p))
}

// Logged handles GET /users/logged and returns the caller's own profile.
func (h *UserHandler) Logged(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.GetByUsername(r.Context(), identity.Principal)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(p))
}

// Update handles PUT /users/update/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UserRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	p, err := h.profiles.Update(r.Context(), id, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(p))
}

// Delete handles DELETE /users/delete/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddBook handles POST /users/{userId}/books/{bookId}.
func (h *UserHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	h.changeCollection(w, r, h.profiles.AddBook)
}

// RemoveBook handles DELETE /users/{userId}/books/{bookId}.
func (h *UserHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	h.changeCollection(w, r, h.profiles.RemoveBook)
}

func (h *UserHandler) changeCollection(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, profileID, bookID uuid.UUID) (*domain.Profile, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handlePathUUID(w, r, "userId", log)
	if !ok {
		return
	}
	bookID, ok := handlePathUUID(w, r, "bookId", log)
	if !ok {
		return
	}

	p, err := op(r.Context(), userID, bookID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(p))
}
