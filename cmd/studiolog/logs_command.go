package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"studiolog/internal/logging"
	"studiolog/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the run's experiment log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.OutputDirectory, logging.ExperimentLogFile)
			out := cmd.OutOrStdout()

			emit := func(batch []string) {
				for _, line := range batch {
					if entry, _ := logs.ParseLine(line); entry.AtLeast(level) {
						fmt.Fprintln(out, line)
					}
				}
			}

			result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			emit(result.Lines)

			for follow {
				result, err = logs.Tail(cmd.Context(), path, logs.TailOptions{
					Offset: result.Offset,
					Follow: true,
					Wait:   time.Second,
				})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
				emit(result.Lines)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Minimum level to show (debug, info, warning, error, critical)")
	return cmd
}
