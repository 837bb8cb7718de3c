// Package logging configures process-wide logging for training runs.
//
// A Registry holds the handlers and per-logger thresholds shared by every
// logger it hands out, so loggers created before Initialize still pick up
// console and file output attached later. Initialize wires those outputs
// according to the run context: console output on the main rank (or every
// rank when requested), an experiment log file under the output directory,
// and a best-effort bootstrap log file when no run context exists.
//
// The package also bridges progress bars into the log stream through
// ProgressWriter and forwards plot artifacts to the run's configured sink.
package logging
