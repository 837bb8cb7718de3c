package sink

import (
	"fmt"
	"log/slog"
)

// LoggerSink records plot metadata through a slog logger. The payload itself
// is not written; only its kind, encoding, and approximate size.
type LoggerSink struct {
	logger *slog.Logger
}

// NewLoggerSink wraps logger. A nil logger falls back to slog.Default().
func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Log(encoding Encoding, kind string, data any) error {
	s.logger.Info("plot logged",
		slog.String("kind", kind),
		slog.String("encoding", string(encoding)),
		slog.Int("size", payloadSize(data)),
	)
	return nil
}

func payloadSize(data any) int {
	switch v := data.(type) {
	case nil:
		return 0
	case string:
		return len(v)
	case []byte:
		return len(v)
	default:
		return len(fmt.Sprint(v))
	}
}
