package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRegistryDefaultsToWarning(t *testing.T) {
	r := NewRegistry()
	if got := r.Level(RootLogger); got != slog.LevelWarn {
		t.Fatalf("root level = %v, want WARN", got)
	}
	if got := r.Level("app.worker"); got != slog.LevelWarn {
		t.Fatalf("unset logger level = %v, want root WARN", got)
	}
}

func TestRegistryLevelInheritance(t *testing.T) {
	r := NewRegistry()
	r.SetLevel(RootLogger, slog.LevelInfo)
	r.SetLevel("diskcache", slog.LevelError)
	r.SetLevel("app.io", slog.LevelDebug)

	tests := []struct {
		name string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"diskcache", slog.LevelError},
		{"diskcache.core", slog.LevelError},
		{"app", slog.LevelInfo},
		{"app.io", slog.LevelDebug},
		{"app.io.reader", slog.LevelDebug},
		{" diskcache ", slog.LevelError},
	}
	for _, tt := range tests {
		if got := r.Level(tt.name); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegistryLoggerSeesLaterHandlers(t *testing.T) {
	r := NewRegistry()
	logger := r.Logger("trainer")

	logger.Warn("before any output")

	rec := &recordingHandler{}
	r.AddHandler(Output{Kind: OutputConsole}, rec, nil)
	logger.Info("below threshold")
	logger.Warn("visible")

	r.SetLevel(RootLogger, slog.LevelInfo)
	logger.Info("now visible")

	got := rec.messages()
	if len(got) != 2 || got[0] != "visible" || got[1] != "now visible" {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestRegistryLoggerReplaysAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.SetLevel(RootLogger, slog.LevelInfo)
	logger := r.Logger("trainer").With("run", "exp1").WithGroup("step")

	r.AddHandler(Output{Kind: OutputConsole}, newTextHandler(&buf, false), nil)
	logger.Info("done", "n", 3)

	if !strings.Contains(buf.String(), "INFO: done run=exp1 step.n=3") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRegistryOutputsAndReset(t *testing.T) {
	r := NewRegistry()
	r.SetLevel("diskcache", slog.LevelError)
	closer := &countingCloser{}
	failing := &countingCloser{err: errors.New("close failed")}

	r.AddHandler(Output{Kind: OutputConsole}, &recordingHandler{}, nil)
	r.AddHandler(Output{Kind: OutputFile, Path: "a.log"}, &recordingHandler{}, closer)
	r.AddHandler(Output{Kind: OutputFile, Path: "b.log"}, &recordingHandler{}, failing)
	r.AddHandler(Output{Kind: OutputFile}, nil, nil)

	outputs := r.Outputs()
	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %v", outputs)
	}
	if outputs[1] != (Output{Kind: OutputFile, Path: "a.log"}) {
		t.Fatalf("unexpected second output %+v", outputs[1])
	}

	err := r.Reset()
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Fatalf("expected close error, got %v", err)
	}
	if closer.calls != 1 || failing.calls != 1 {
		t.Fatalf("expected each closer called once, got %d and %d", closer.calls, failing.calls)
	}
	if len(r.Outputs()) != 0 {
		t.Fatal("expected outputs cleared")
	}
	if r.Level("diskcache") != slog.LevelWarn {
		t.Fatal("expected levels restored to defaults")
	}
}

type countingCloser struct {
	calls int
	err   error
}

func (c *countingCloser) Close() error {
	c.calls++
	return c.err
}
