package logging

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrLoggerUndefined reports a flush against a writer with no logger, which
// happens when progress output races process teardown. Flush swallows it.
var ErrLoggerUndefined = errors.New("progress logger is not defined")

// progressCutset covers the carriage returns, newlines, padding, and the
// "[A" cursor-up residue progress bars emit while redrawing a line.
const progressCutset = "\r\n\t [A"

// ProgressWriter turns progress-bar redraws into log lines. Write keeps only
// the latest redraw, stripped of terminal control characters; Flush logs it.
//
// The buffer is not cleared by Flush, so flushing twice without a Write in
// between logs the same line twice.
type ProgressWriter struct {
	mu     sync.Mutex
	logger *slog.Logger
	level  slog.Level
	buf    string
}

// NewProgressWriter returns a writer that logs to logger at level. The zero
// level is INFO.
func NewProgressWriter(logger *slog.Logger, level slog.Level) *ProgressWriter {
	return &ProgressWriter{logger: logger, level: level}
}

// Write replaces the buffered line with p. It never fails.
func (w *ProgressWriter) Write(p []byte) (int, error) {
	w.store(string(p))
	return len(p), nil
}

// WriteString is Write for strings.
func (w *ProgressWriter) WriteString(s string) (int, error) {
	w.store(s)
	return len(s), nil
}

func (w *ProgressWriter) store(s string) {
	w.mu.Lock()
	w.buf = strings.Trim(s, progressCutset)
	w.mu.Unlock()
}

// Buffered returns the line the next Flush would log.
func (w *ProgressWriter) Buffered() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf
}

// Flush logs the buffered line when it is non-empty. Handler errors are
// returned; a missing logger is not an error.
func (w *ProgressWriter) Flush() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	line := w.buf
	w.mu.Unlock()
	if line == "" {
		return nil
	}
	if err := w.emit(context.Background(), line); err != nil {
		if errors.Is(err, ErrLoggerUndefined) {
			return nil
		}
		return err
	}
	return nil
}

func (w *ProgressWriter) emit(ctx context.Context, line string) error {
	if w.logger == nil {
		return ErrLoggerUndefined
	}
	handler := w.logger.Handler()
	if !handler.Enabled(ctx, w.level) {
		return nil
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	record := slog.NewRecord(time.Now(), w.level, line, pcs[0])
	return handler.Handle(ctx, record)
}
