package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
)

// BookService is the catalog behavior the book handler needs.
type BookService interface {
	List(ctx context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	Create(ctx context.Context, input domain.BookPatch) (*domain.Book, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (*domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Owners(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	LookupByISBN(ctx context.Context, isbn string) (*openlibrary.BookInfo, bool, error)
}

// BookHandler handles the book catalog endpoints.
type BookHandler struct {
	books  BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books BookService, logger *slog.Logger) *BookHandler {
	if books == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("book service cannot be nil for BookHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{
		books:  books,
		logger: logger.With(slog.String("component", "book_handler")),
	}
}

// FindAll handles GET /books/findAll with optional title, author and
// genre filters.
func (h *BookHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePageRequest(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := domain.BookFilter{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		Genre:  q.Get("genre"),
	}

	books, total, err := h.books.List(r.Context(), filter, page.Size, page.Offset())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.Map(shared.NewPage(books, page, total), bookToResponse))
}

// FindByID handles GET /books/findById/{id}.
func (h *BookHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// FindOwners handles GET /books/findById/{id}/owners.
func (h *BookHandler) FindOwners(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	owners, err := h.books.Owners(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if owners == nil {
		owners = []uuid.UUID{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BookOwnersResponse{BookID: id, OwnerIDs: owners})
}

// FindByISBN handles GET /books/isbn/{isbn}. It answers 200 for a book
// already in the catalog and 201 when the book was imported.
func (h *BookHandler) FindByISBN(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	isbn := chi.URLParam(r, "isbn")

	info, imported, err := h.books.LookupByISBN(r.Context(), isbn)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	status := http.StatusOK
	if imported {
		status = http.StatusCreated
		log.Info("book imported by isbn", slog.String("isbn", isbn))
	}
	shared.RespondWithJSON(w, r, status, info)
}

// Create handles POST /books/create.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BookRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	book, err := h.books.Create(r.Context(), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, bookToResponse(book))
}

// Update handles PUT /books/update/{id}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req BookRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	book, err := h.books.Update(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// Delete handles DELETE /books/delete/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
