package mocks

import (
	"context"

	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
)

// MockISBNLookup stands in for the Open Library client.
type MockISBNLookup struct {
	LookupFn func(ctx context.Context, isbn string) (*openlibrary.BookInfo, error)

	Info  *openlibrary.BookInfo
	Err   error
	Calls []string
}

// LookupISBN records the call and returns LookupFn's result or the defaults.
func (m *MockISBNLookup) LookupISBN(ctx context.Context, isbn string) (*openlibrary.BookInfo, error) {
	m.Calls = append(m.Calls, isbn)
	if m.LookupFn != nil {
		return m.LookupFn(ctx, isbn)
	}
	return m.Info, m.Err
}
