package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// minLevel lets output handlers accept everything; thresholds are enforced by
// the registry's loggers.
const minLevel = slog.Level(math.MinInt)

// textHandler renders "<ts> - [PID <pid> - ]<LEVEL>: <message>" lines, with
// structured attributes appended as key=value pairs.
type textHandler struct {
	mu      *sync.Mutex
	writer  io.Writer
	withPID bool
	pid     int
	attrs   []kv
	groups  []string
}

func newTextHandler(w io.Writer, withPID bool) slog.Handler {
	return &textHandler{mu: new(sync.Mutex), writer: w, withPID: withPID, pid: os.Getpid()}
}

func (h *textHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *textHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	kvs = append(kvs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var buf bytes.Buffer
	buf.Grow(64 + len(record.Message) + len(kvs)*24)

	buf.WriteString(formatTimestamp(timestamp))
	buf.WriteString(" - ")
	if h.withPID {
		buf.WriteString("PID ")
		buf.WriteString(strconv.Itoa(h.pid))
		buf.WriteString(" - ")
	}
	buf.WriteString(levelLabel(record.Level))
	buf.WriteString(": ")
	buf.WriteString(record.Message)

	for _, kv := range kvs {
		if kv.key == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(kv.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(kv.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// WithAttrs qualifies attrs with the groups open at this point, so groups
// added later do not apply to them.
func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	flattenAttrs(&clone.attrs, h.groups, attrs)
	return clone
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *textHandler) clone() *textHandler {
	clone := &textHandler{
		mu:      h.mu,
		writer:  h.writer,
		withPID: h.withPID,
		pid:     h.pid,
	}
	if len(h.attrs) > 0 {
		clone.attrs = make([]kv, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		nextPrefix := prefix
		if attr.Key != "" {
			nextPrefix = appendPrefix(prefix, attr.Key)
		}
		flattenAttrs(dst, nextPrefix, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 && key != "" {
		key = strings.Join(append(append([]string(nil), prefix...), key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func appendPrefix(prefix []string, value string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = value
	return out
}

// levelLabel uses the level names training logs have always carried.
func levelLabel(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
