// Package config loads, normalizes, and validates the run context consumed by
// the logging layer.
//
// A run context describes one training process: where its experiment output
// lives, which local rank it is, and whether every rank should log. Values
// come from a TOML file, with LOCAL_RANK from the distributed launcher taking
// precedence over the file. A nil *Config is meaningful to callers: it stands
// for the interactive app rather than an experiment run.
package config
