// Package sink defines the destinations plot artifacts are forwarded to.
//
// A Sink receives an encoding, a plot kind, and an opaque payload. The package
// ships a SQLite-backed charts store that keeps every plot logged during a run
// under the experiment output directory, a slog-backed sink that only records
// plot metadata, and a no-op sink for callers that do not persist charts.
package sink
