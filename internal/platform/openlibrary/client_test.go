package openlibrary_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duneResponse = `{
  "ISBN:9780441013593": {
    "title": "Dune",
    "subtitle": "Deluxe Edition",
    "publishers": [{"name": "Ace"}, {"name": "Chilton"}],
    "publish_date": "2005",
    "number_of_pages": 528,
    "authors": [{"name": "Frank Herbert", "url": "https://openlibrary.org/authors/OL79034A"}],
    "identifiers": {"isbn_13": ["9780441013593"]}
  }
}`

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("cache down")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

func newServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "data", r.URL.Query().Get("jscmd"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupISBN(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, duneResponse, nil)
	c, err := openlibrary.New(srv.URL, time.Second, nil)
	require.NoError(t, err)

	info, err := c.LookupISBN(context.Background(), "9780441013593")
	require.NoError(t, err)
	assert.Equal(t, "9780441013593", info.ISBN)
	assert.Equal(t, "Dune", info.Title)
	assert.Equal(t, "Deluxe Edition", info.Subtitle)
	assert.Equal(t, []string{"Ace", "Chilton"}, info.Publishers)
	assert.Equal(t, "Ace", info.FirstPublisher())
	assert.Equal(t, "Frank Herbert", info.FirstAuthor())
	assert.Equal(t, "2005", info.PublishDate)
	require.NotNil(t, info.NumberOfPages)
	assert.Equal(t, 528, *info.NumberOfPages)
}

func TestLookupISBN_NotFound(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, `{}`, nil)
	c, err := openlibrary.New(srv.URL, time.Second, nil)
	require.NoError(t, err)

	_, err = c.LookupISBN(context.Background(), "0000000000")
	assert.ErrorIs(t, err, openlibrary.ErrNotFound)

	_, err = c.LookupISBN(context.Background(), "  ")
	assert.ErrorIs(t, err, openlibrary.ErrNotFound)
}

func TestLookupISBN_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `oops`},
		{"malformed body", http.StatusOK, `{"ISBN:1": `},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := newServer(t, tc.status, tc.body, nil)
			c, err := openlibrary.New(srv.URL, time.Second, nil)
			require.NoError(t, err)

			_, err = c.LookupISBN(context.Background(), "1")
			require.Error(t, err)
			assert.False(t, errors.Is(err, openlibrary.ErrNotFound))
		})
	}
}

func TestLookupISBN_Cache(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := newServer(t, http.StatusOK, duneResponse, &hits)
	cache := &memCache{}
	c, err := openlibrary.New(srv.URL, time.Second, nil, openlibrary.WithCache(cache))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		info, err := c.LookupISBN(context.Background(), "9780441013593")
		require.NoError(t, err)
		assert.Equal(t, "Dune", info.Title)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	cache.mu.Lock()
	cache.failGet = true
	cache.mu.Unlock()

	_, err = c.LookupISBN(context.Background(), "9780441013593")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
