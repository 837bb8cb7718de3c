package testsupport

import (
	"path/filepath"
	"testing"

	"studiolog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose output directory lives in a unique temp
// directory per test. It defaults common fields and applies any provided
// options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.OutputDirectory = filepath.Join(base, "output")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLocalRank sets the process rank on the test config.
func WithLocalRank(rank int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Environment.LocalRank = rank
	}
}

// WithLogAllRanks enables logging from every rank.
func WithLogAllRanks() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.LogAllRanks = true
	}
}

// WithFormat selects the log line format.
func WithFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
	}
}

// WithOutputDirectory points the output directory at dir. Relative paths are
// resolved against the builder's temp directory.
func WithOutputDirectory(dir string) ConfigOption {
	return func(b *configBuilder) {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(b.baseDir, dir)
		}
		b.cfg.OutputDirectory = dir
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.OutputDirectory)
}
