package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPatchRequestFilter(t *testing.T) {
	tests := []struct {
		message string
		keep    bool
	}{
		{"HTTP Request: PATCH http://127.0.0.1:10101/app", false},
		{"prefix HTTP Request: PATCH suffix", false},
		{"HTTP Request: GET http://127.0.0.1:10101/app", true},
		{"http request: patch lowercase", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			record := slog.NewRecord(testTime, slog.LevelInfo, tt.message, 0)
			if got := PatchRequestFilter(record); got != tt.keep {
				t.Fatalf("PatchRequestFilter(%q) = %v, want %v", tt.message, got, tt.keep)
			}
		})
	}
}

func TestWithFiltersDropsRejectedRecords(t *testing.T) {
	rec := &recordingHandler{}
	logger := slog.New(WithFilters(rec, PatchRequestFilter))

	logger.Info("HTTP Request: PATCH http://localhost/app")
	logger.Info("epoch 1 done")
	logger.Error("HTTP Request: PATCH failed")

	got := rec.messages()
	if len(got) != 1 || got[0] != "epoch 1 done" {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestWithFiltersPassThrough(t *testing.T) {
	rec := &recordingHandler{}
	if h := WithFilters(rec); h != slog.Handler(rec) {
		t.Fatalf("expected handler returned unwrapped, got %T", h)
	}
	if h := WithFilters(rec, nil); h != slog.Handler(rec) {
		t.Fatalf("nil filters should be ignored, got %T", h)
	}
	if _, ok := WithFilters(nil, PatchRequestFilter).(NoopHandler); !ok {
		t.Fatal("nil handler should become NoopHandler")
	}
}

func TestWithFiltersKeepsFilteringAfterWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := WithFilters(newTextHandler(&buf, false), PatchRequestFilter)
	logger := slog.New(h).With("component", "app")

	logger.Info("HTTP Request: PATCH /app")
	logger.Info("ready")

	out := buf.String()
	if strings.Contains(out, "PATCH") {
		t.Fatalf("patch line leaked: %q", out)
	}
	if !strings.Contains(out, "INFO: ready component=app") {
		t.Fatalf("unexpected output %q", out)
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("filter should defer Enabled to next handler")
	}
}
