package logging

import (
	"errors"

	"studiolog/internal/config"
	"studiolog/internal/sink"
)

// ErrNoSink is returned when a plot is logged for a run without a sink.
var ErrNoSink = errors.New("run has no plot sink configured")

// LogPlot forwards plot to the run's sink under kind. The plot's encoding is
// passed through unchanged and sink errors are returned as-is.
func LogPlot(cfg *config.Config, plot sink.PlotData, kind string) error {
	if cfg == nil || cfg.Logging.Sink == nil {
		return ErrNoSink
	}
	return cfg.Logging.Sink.Log(plot.Encoding, kind, plot.Data)
}
