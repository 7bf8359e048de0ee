package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logStore is shared by a handler and every handler derived from it
type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// CaptureHandler captures log records for testing. Attributes added with
// Logger.With are kept, so records carry fields such as component.
type CaptureHandler struct {
	store *logStore
	attrs []slog.Attr
	t     *testing.T
}

// NewCaptureLogger creates a debug-level logger whose records can be inspected
func NewCaptureLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	h := &CaptureHandler{store: &logStore{}, t: t}
	return slog.New(h), h
}

// Enabled implements slog.Handler
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CaptureHandler{store: h.store, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *CaptureHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of every captured record
func (h *CaptureHandler) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	records := make([]LogRecord, len(h.store.records))
	copy(records, h.store.records)
	return records
}

// Find returns the records at level whose message contains msg
func (h *CaptureHandler) Find(level slog.Level, msg string) []LogRecord {
	var found []LogRecord
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, msg) {
			found = append(found, r)
		}
	}
	return found
}
