package logging

import "time"

// Matches the "%(asctime)s" layout used by the training scripts' log lines.
const logTimestampLayout = "2006-01-02 15:04:05,000"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(logTimestampLayout)
}
