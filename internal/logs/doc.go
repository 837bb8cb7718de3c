// Package logs reads experiment log files back.
//
// Tail returns the last lines of a log or the lines appended after a known
// offset, optionally waiting for new output. ParseLine splits the text line
// layout written by the logging package into timestamp, process id, level,
// and message so callers can filter by severity.
package logs
