package testsupport

import (
	"testing"

	"studiolog/internal/config"
	"studiolog/internal/sink"
)

// MustOpenCharts opens the charts store under the config's output directory,
// wires it as the plot sink, and registers cleanup.
func MustOpenCharts(t testing.TB, cfg *config.Config) *sink.Store {
	t.Helper()

	store, err := sink.OpenDir(cfg.OutputDirectory, nil)
	if err != nil {
		t.Fatalf("sink.OpenDir: %v", err)
	}
	cfg.Logging.Sink = store
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
