package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"studiolog/internal/config"
)

const (
	// ExperimentLogFile is written inside the run's output directory.
	ExperimentLogFile = "logs.log"
	// BootstrapLogFile is written to the working directory when no run
	// context exists.
	BootstrapLogFile = "h2o_llmstudio.log"
	// DiskCacheLogger names the charts cache logger, which only reports errors.
	DiskCacheLogger = "diskcache"
)

// Initialize configures the process-wide registry for cfg and installs its
// root logger as the slog default. A nil cfg means the interactive app rather
// than an experiment run.
//
// Outputs accumulate: calling Initialize twice attaches a second set of
// handlers. Use Default().Reset() to start over.
func Initialize(cfg *config.Config) error {
	if err := defaultRegistry.Initialize(cfg); err != nil {
		return err
	}
	slog.SetDefault(defaultRegistry.Logger(RootLogger))
	return nil
}

// Initialize attaches console and file outputs to r according to cfg.
//
// The console is attached for the app, for local rank 0, or for every rank
// when logging.log_all_ranks is set. The experiment log file follows the same
// rank rule; failing to create it is returned to the caller. Without a run
// context the bootstrap log file is opened best-effort: a permission error
// leaves the process with console output only.
func (r *Registry) Initialize(cfg *config.Config) error {
	withPID := cfg != nil && cfg.Logging.LogAllRanks
	format := "text"
	if cfg != nil {
		format = cfg.Logging.Format
	}

	r.SetLevel(DiskCacheLogger, slog.LevelError)
	r.SetLevel(RootLogger, slog.LevelInfo)

	if cfg == nil || cfg.IsMainRank() || cfg.Logging.LogAllRanks {
		handler, err := newFormatHandler(r.console, format, withPID)
		if err != nil {
			return err
		}
		r.AddHandler(Output{Kind: OutputConsole}, WithFilters(handler, PatchRequestFilter), nil)
	}

	file, err := openRunLogFile(cfg)
	if err != nil {
		return err
	}
	if file == nil {
		return nil
	}
	handler, err := newFormatHandler(file, format, withPID)
	if err != nil {
		_ = file.Close()
		return err
	}
	r.AddHandler(Output{Kind: OutputFile, Path: file.Name()}, WithFilters(handler, PatchRequestFilter), file)
	return nil
}

// openRunLogFile returns the log file for cfg, or nil when this process should
// not write one.
func openRunLogFile(cfg *config.Config) (*os.File, error) {
	if cfg != nil {
		if !cfg.LogsToOutput() {
			return nil, nil
		}
		if err := os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
			return nil, fmt.Errorf("ensure output directory: %w", err)
		}
		return openLogFile(filepath.Join(cfg.OutputDirectory, ExperimentLogFile))
	}

	file, err := openLogFile(BootstrapLogFile)
	if errors.Is(err, fs.ErrPermission) {
		return nil, nil
	}
	return file, err
}

// openLogFile is replaced in tests to simulate unwritable paths.
var openLogFile = func(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
