package logging

import (
	"context"
	"log/slog"
)

// levelOverrideHandler enforces a minimum level read from a Leveler on every
// call, so thresholds changed after a logger was created still apply.
type levelOverrideHandler struct {
	next  slog.Handler
	level slog.Leveler
}

func newLevelOverrideHandler(next slog.Handler, level slog.Leveler) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	if level == nil {
		return next
	}
	return &levelOverrideHandler{next: next, level: level}
}

func (h *levelOverrideHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.level.Level() {
		return false
	}
	return h.next.Enabled(ctx, level)
}

func (h *levelOverrideHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *levelOverrideHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelOverrideHandler{next: h.next.WithAttrs(attrs), level: h.level}
}

func (h *levelOverrideHandler) WithGroup(name string) slog.Handler {
	return &levelOverrideHandler{next: h.next.WithGroup(name), level: h.level}
}

// WithLevelOverride returns a logger that enforces the provided minimum level
// while preserving existing attributes and handler wiring.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return slog.New(newLevelOverrideHandler(logger.Handler(), level))
}
