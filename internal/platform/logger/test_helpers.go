package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// CapturedLogs collects JSON log lines written during a test. It is safe for
// concurrent handlers.
type CapturedLogs struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *CapturedLogs) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *CapturedLogs) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Capture returns a debug-level JSON logger that writes into the returned
// buffer. The slog default is not touched.
func Capture(t *testing.T) (*slog.Logger, *CapturedLogs) {
	t.Helper()
	logs := &CapturedLogs{}
	return slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})), logs
}

// CaptureContext is Capture with the logger already stored in a context.
func CaptureContext(t *testing.T) (context.Context, *CapturedLogs) {
	t.Helper()
	l, logs := Capture(t)
	return WithLogger(context.Background(), l), logs
}

// Entries decodes every captured line, failing the test on malformed output.
func (c *CapturedLogs) Entries(t *testing.T) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(c.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// AssertField reports an error unless some entry has field equal to want.
func (c *CapturedLogs) AssertField(t *testing.T, field string, want any) {
	t.Helper()
	for _, entry := range c.Entries(t) {
		if v, ok := entry[field]; ok && v == want {
			return
		}
	}
	t.Errorf("no log entry with %s=%v\nlogs: %s", field, want, c.String())
}

// AssertContains reports an error unless the raw output contains s.
func (c *CapturedLogs) AssertContains(t *testing.T, s string) {
	t.Helper()
	if !strings.Contains(c.String(), s) {
		t.Errorf("logs do not contain %q\nlogs: %s", s, c.String())
	}
}
