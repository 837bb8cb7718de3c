package logs

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05,000"

// Entry is one parsed text log line.
type Entry struct {
	Time    time.Time
	PID     int
	Level   string
	Message string
	Raw     string
}

// ParseLine splits a "<ts> - [PID <pid> - ]<LEVEL>: <message>" line. Lines
// that do not follow the layout (continuations, foreign output) come back with
// only Raw and Message set and ok false.
func ParseLine(line string) (Entry, bool) {
	entry := Entry{Raw: line, Message: line}

	stamp, rest, found := strings.Cut(line, " - ")
	if !found {
		return entry, false
	}
	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return entry, false
	}

	if after, ok := strings.CutPrefix(rest, "PID "); ok {
		pidText, tail, found := strings.Cut(after, " - ")
		if !found {
			return entry, false
		}
		pid, err := strconv.Atoi(pidText)
		if err != nil {
			return entry, false
		}
		entry.PID = pid
		rest = tail
	}

	level, message, found := strings.Cut(rest, ": ")
	if _, known := levelRank(level); !found || !known {
		return entry, false
	}
	entry.Time = ts
	entry.Level = level
	entry.Message = message
	return entry, true
}

// AtLeast reports whether the entry's level is at or above min, which is a
// level name such as "warning". Unparsed entries always pass.
func (e Entry) AtLeast(min string) bool {
	threshold, ok := levelRank(strings.ToUpper(strings.TrimSpace(min)))
	if !ok || e.Level == "" {
		return true
	}
	level, _ := levelRank(e.Level)
	return level >= threshold
}

func levelRank(name string) (slog.Level, bool) {
	switch name {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARNING", "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	case "CRITICAL":
		return slog.LevelError + 4, true
	default:
		return 0, false
	}
}
