package logging

import (
	"context"
	"log/slog"
	"strings"
)

// PatchRequestPattern marks the periodic PATCH request lines emitted by the
// app's HTTP client at INFO level.
const PatchRequestPattern = "HTTP Request: PATCH"

// Filter reports whether a record should be kept.
type Filter func(record slog.Record) bool

// PatchRequestFilter drops records whose message contains PatchRequestPattern.
func PatchRequestFilter(record slog.Record) bool {
	return !strings.Contains(record.Message, PatchRequestPattern)
}

// filterHandler drops records rejected by any filter before they reach next.
type filterHandler struct {
	next    slog.Handler
	filters []Filter
}

// WithFilters wraps next so that records rejected by any filter are discarded.
func WithFilters(next slog.Handler, filters ...Filter) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &filterHandler{next: next, filters: kept}
}

func (h *filterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *filterHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, keep := range h.filters {
		if !keep(record) {
			return nil
		}
	}
	return h.next.Handle(ctx, record)
}

func (h *filterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filterHandler{next: h.next.WithAttrs(attrs), filters: h.filters}
}

func (h *filterHandler) WithGroup(name string) slog.Handler {
	return &filterHandler{next: h.next.WithGroup(name), filters: h.filters}
}
