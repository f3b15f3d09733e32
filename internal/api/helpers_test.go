package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/stretchr/testify/require"
)

func newTestRouter(auth *api.AuthHandler, books *api.BookHandler, users *api.UserHandler) http.Handler {
	r := chi.NewRouter()
	if auth != nil {
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/register", auth.Register)
	}
	if books != nil {
		r.Get("/books/findAll", books.FindAll)
		r.Get("/books/findById/{id}", books.FindByID)
		r.Get("/books/findById/{id}/owners", books.FindOwners)
		r.Get("/books/isbn/{isbn}", books.FindByISBN)
		r.Post("/books/create", books.Create)
		r.Put("/books/update/{id}", books.Update)
		r.Delete("/books/delete/{id}", books.Delete)
	}
	if users != nil {
		r.Get("/users/findAll", users.FindAll)
		r.Get("/users/findById/{id}", users.FindByID)
		r.Get("/users/logged", users.Logged)
		r.Put("/users/update/{id}", users.Update)
		r.Delete("/users/delete/{id}", users.Delete)
		r.Post("/users/{userId}/books/{bookId}", users.AddBook)
		r.Delete("/users/{userId}/books/{bookId}", users.RemoveBook)
	}
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, principal string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req = req.WithContext(shared.WithIdentity(req.Context(), shared.Identity{Principal: principal}))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []shared.ApiError {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.False(t, body.Timestamp.IsZero())
	return body.Errors
}
