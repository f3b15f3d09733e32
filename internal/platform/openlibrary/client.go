// Package openlibrary is a small client for the Open Library books API,
// used to resolve an ISBN that is not yet in the local catalog.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Open Library host.
const DefaultBaseURL = "https://openlibrary.org"

// ErrNotFound is returned when Open Library has no record for the ISBN.
var ErrNotFound = errors.New("isbn not found in open library")

// BookInfo is the external view of a book, as returned by the ISBN lookup.
type BookInfo struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Publishers    []string `json:"publishers"`
	PublishDate   string   `json:"publishDate"`
	NumberOfPages *int     `json:"numberOfPages"`
	Authors       []string `json:"authors"`
}

// Cache is a byte store keyed by ISBN. A miss returns found=false.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Client queries the Open Library books endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithCache memoizes successful lookups in cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New constructs a Client for the given base URL.
func New(base string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid open library base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "openlibrary_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupISBN fetches the record for isbn. The cache, when configured, is
// consulted first; cache failures are logged and otherwise ignored.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrNotFound
	}

	if info := c.fromCache(ctx, isbn); info != nil {
		return info, nil
	}

	info, err := c.fetch(ctx, isbn)
	if err != nil {
		return nil, err
	}

	c.toCache(ctx, info)
	return info, nil
}

func (c *Client) fetch(ctx context.Context, isbn string) (*BookInfo, error) {
	q := url.Values{}
	q.Set("bibkeys", "ISBN:"+isbn)
	q.Set("format", "json")
	q.Set("jscmd", "data")
	endpoint := c.baseURL + "/api/books?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("open library returned status %d", resp.StatusCode)
	}

	// The response is an object keyed by the requested bibkey.
	var payload map[string]bookData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	data, ok := payload["ISBN:"+isbn]
	if !ok {
		for _, v := range payload {
			data, ok = v, true
			break
		}
	}
	if !ok {
		return nil, ErrNotFound
	}
	return data.toInfo(isbn), nil
}

func (c *Client) fromCache(ctx context.Context, isbn string) *BookInfo {
	if c.cache == nil {
		return nil
	}
	raw, found, err := c.cache.Get(ctx, isbn)
	if err != nil {
		c.logger.WarnContext(ctx, "isbn cache read failed", slog.String("error", err.Error()))
		return nil
	}
	if !found {
		return nil
	}

	var info BookInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		c.logger.WarnContext(ctx, "discarding malformed cache entry",
			slog.String("isbn", isbn),
			slog.String("error", err.Error()))
		return nil
	}
	return &info
}

func (c *Client) toCache(ctx context.Context, info *BookInfo) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, info.ISBN, raw); err != nil {
		c.logger.WarnContext(ctx, "isbn cache write failed", slog.String("error", err.Error()))
	}
}

type named struct {
	Name string `json:"name"`
}

type bookData struct {
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle"`
	Publishers    []named `json:"publishers"`
	PublishDate   string  `json:"publish_date"`
	NumberOfPages *int    `json:"number_of_pages"`
	Authors       []named `json:"authors"`
}

func (d bookData) toInfo(isbn string) *BookInfo {
	return &BookInfo{
		ISBN:          isbn,
		Title:         d.Title,
		Subtitle:      d.Subtitle,
		Publishers:    names(d.Publishers),
		PublishDate:   d.PublishDate,
		NumberOfPages: d.NumberOfPages,
		Authors:       names(d.Authors),
	}
}

func names(in []named) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		out = append(out, n.Name)
	}
	return out
}

// FirstPublisher returns the first publisher or "".
func (b *BookInfo) FirstPublisher() string {
	if len(b.Publishers) == 0 {
		return ""
	}
	return b.Publishers[0]
}

// FirstAuthor returns the first author or "".
func (b *BookInfo) FirstAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}
