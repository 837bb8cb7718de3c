package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var testTime = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.Local)

// recordingHandler captures records for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
	err     error
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record.Clone())
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.records))
	for i, r := range h.records {
		out[i] = r.Message
	}
	return out
}

func (h *recordingHandler) levels() []slog.Level {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slog.Level, len(h.records))
	for i, r := range h.records {
		out[i] = r.Level
	}
	return out
}
