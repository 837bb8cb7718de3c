package logs_test

import (
	"testing"

	"studiolog/internal/logs"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		pid     int
		level   string
		message string
	}{
		{"plain", "2024-03-09 14:05:07,123 - INFO: epoch 1 done", true, 0, "INFO", "epoch 1 done"},
		{"with pid", "2024-03-09 14:05:07,123 - PID 4242 - WARNING: slow: step", true, 4242, "WARNING", "slow: step"},
		{"progress", "2024-03-09 14:05:07,123 - INFO: train  40% |####      | (4/10)", true, 0, "INFO", "train  40% |####      | (4/10)"},
		{"bad timestamp", "yesterday - INFO: hi", false, 0, "", "yesterday - INFO: hi"},
		{"bad pid", "2024-03-09 14:05:07,123 - PID x - INFO: hi", false, 0, "", "2024-03-09 14:05:07,123 - PID x - INFO: hi"},
		{"unknown level", "2024-03-09 14:05:07,123 - NOTICE: hi", false, 0, "", "2024-03-09 14:05:07,123 - NOTICE: hi"},
		{"continuation", "  at frame 3", false, 0, "", "  at frame 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := logs.ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if entry.PID != tt.pid || entry.Level != tt.level || entry.Message != tt.message {
				t.Fatalf("unexpected entry %+v", entry)
			}
			if entry.Raw != tt.line {
				t.Fatalf("raw = %q, want %q", entry.Raw, tt.line)
			}
			if tt.ok && (entry.Time.Hour() != 14 || entry.Time.Nanosecond() != 123_000_000) {
				t.Fatalf("unexpected time %v", entry.Time)
			}
		})
	}
}

func TestEntryAtLeast(t *testing.T) {
	warn, _ := logs.ParseLine("2024-03-09 14:05:07,123 - WARNING: w")
	info, _ := logs.ParseLine("2024-03-09 14:05:07,123 - INFO: i")
	raw, _ := logs.ParseLine("traceback")

	if !warn.AtLeast("warning") || !warn.AtLeast("info") || warn.AtLeast("error") {
		t.Fatal("warning threshold mismatch")
	}
	if info.AtLeast("warn") {
		t.Fatal("info should not pass warn")
	}
	if !raw.AtLeast("error") {
		t.Fatal("unparsed lines should always pass")
	}
	if !info.AtLeast("bogus") {
		t.Fatal("unknown threshold should pass everything")
	}
}
