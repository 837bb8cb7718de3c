package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func newJSONHandler(w io.Writer, withPID bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level: minLevel,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(formatTimestamp(attr.Value.Time()))
				}
			case slog.LevelKey:
				if level, ok := attr.Value.Any().(slog.Level); ok {
					attr.Value = slog.StringValue(strings.ToLower(levelLabel(level)))
				}
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}

	handler := slog.Handler(slog.NewJSONHandler(w, &opts))
	if withPID {
		handler = handler.WithAttrs([]slog.Attr{slog.Int(FieldPID, os.Getpid())})
	}
	return handler
}

// newFormatHandler builds the line handler for a configured format name.
func newFormatHandler(w io.Writer, format string, withPID bool) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return newTextHandler(w, withPID), nil
	case "json":
		return newJSONHandler(w, withPID), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}
