package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// RootLogger names the root of the logger hierarchy.
const RootLogger = ""

// OutputKind identifies where an attached handler writes.
type OutputKind string

const (
	OutputConsole OutputKind = "console"
	OutputFile    OutputKind = "file"
)

// Output describes a handler attached to a Registry.
type Output struct {
	Kind OutputKind
	Path string
}

type registeredOutput struct {
	Output
	handler slog.Handler
	closer  io.Closer
}

// Registry is the shared state behind every logger it hands out: the attached
// output handlers and the per-name level thresholds. Named loggers without
// their own threshold inherit from their nearest dotted ancestor, and finally
// from the root.
type Registry struct {
	mu      sync.RWMutex
	console io.Writer
	levels  map[string]slog.Level
	outputs []registeredOutput
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithConsoleWriter directs console output to w instead of stderr.
func WithConsoleWriter(w io.Writer) RegistryOption {
	return func(r *Registry) {
		if w != nil {
			r.console = w
		}
	}
}

// NewRegistry returns an empty registry whose root threshold is WARNING until
// Initialize lowers it.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		console: os.Stderr,
		levels:  map[string]slog.Level{RootLogger: slog.LevelWarn},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Logger returns a logger bound to name. Its threshold and outputs are
// resolved on every call, so later configuration applies to it.
func (r *Registry) Logger(name string) *slog.Logger {
	name = strings.TrimSpace(name)
	return slog.New(newLevelOverrideHandler(&dispatchHandler{registry: r}, registryLeveler{registry: r, name: name}))
}

// SetLevel sets the threshold for name. RootLogger sets the root threshold.
func (r *Registry) SetLevel(name string, level slog.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[strings.TrimSpace(name)] = level
}

// Level returns the effective threshold for name.
func (r *Registry) Level(name string) slog.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name = strings.TrimSpace(name)
	for name != RootLogger {
		if level, ok := r.levels[name]; ok {
			return level
		}
		if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
			name = name[:idx]
		} else {
			name = RootLogger
		}
	}
	return r.levels[RootLogger]
}

// AddHandler attaches handler as an output. closer, when non-nil, is closed by
// Reset.
func (r *Registry) AddHandler(out Output, handler slog.Handler, closer io.Closer) {
	if handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, registeredOutput{Output: out, handler: handler, closer: closer})
}

// Outputs lists attached outputs in attachment order.
func (r *Registry) Outputs() []Output {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Output, len(r.outputs))
	for i, o := range r.outputs {
		out[i] = o.Output
	}
	return out
}

// Reset detaches every output, closes their files, and restores the default
// thresholds.
func (r *Registry) Reset() error {
	r.mu.Lock()
	outputs := r.outputs
	r.outputs = nil
	r.levels = map[string]slog.Level{RootLogger: slog.LevelWarn}
	r.mu.Unlock()

	var errs []error
	for _, o := range outputs {
		if o.closer == nil {
			continue
		}
		if err := o.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) handlers() []slog.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := make([]slog.Handler, len(r.outputs))
	for i, o := range r.outputs {
		handlers[i] = o.handler
	}
	return handlers
}

type registryLeveler struct {
	registry *Registry
	name     string
}

func (l registryLeveler) Level() slog.Level {
	return l.registry.Level(l.name)
}

// dispatchHandler forwards records to the registry's current outputs,
// replaying any WithAttrs/WithGroup calls made on the logger.
type dispatchHandler struct {
	registry *Registry
	ops      []handlerOp
}

type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h *dispatchHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *dispatchHandler) Handle(ctx context.Context, record slog.Record) error {
	handlers := h.registry.handlers()
	for i, handler := range handlers {
		for _, op := range h.ops {
			if op.group != "" {
				handler = handler.WithGroup(op.group)
			} else {
				handler = handler.WithAttrs(op.attrs)
			}
		}
		handlers[i] = handler
	}
	return newFanoutHandler(handlers...).Handle(ctx, record)
}

func (h *dispatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: append([]slog.Attr(nil), attrs...)})
}

func (h *dispatchHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}

func (h *dispatchHandler) with(op handlerOp) *dispatchHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	return &dispatchHandler{registry: h.registry, ops: append(ops, op)}
}
