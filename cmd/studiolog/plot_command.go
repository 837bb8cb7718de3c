package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"studiolog/internal/logging"
	"studiolog/internal/sink"
)

func newPlotCommand(ctx *commandContext) *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Record and inspect plot artifacts of a run",
	}

	plotCmd.AddCommand(newPlotLogCommand(ctx))
	plotCmd.AddCommand(newPlotListCommand(ctx))

	return plotCmd
}

func newPlotLogCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var encoding string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "log <file>...",
		Short: "Record plot files in the run's charts database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			kind = strings.TrimSpace(kind)
			if kind == "" {
				return errors.New("--kind is required")
			}

			logger := ctx.logger()
			switch {
			case dryRun:
				cfg.Logging.Sink = sink.NewLoggerSink(logger)
			case !cfg.IsMainRank():
				cfg.Logging.Sink = sink.Nop{}
			default:
				store, err := ctx.chartsStore()
				if err != nil {
					return err
				}
				cfg.Logging.Sink = store
			}

			var bar *logging.ProgressBar
			if len(args) > 1 {
				bar = logging.NewProgressBar(logger, int64(len(args)), logging.ProgressBarOptions{Description: "plots"})
			}
			for _, path := range args {
				plot, err := readPlot(path, sink.Encoding(encoding))
				if err != nil {
					return err
				}
				if err := logging.LogPlot(cfg, plot, kind); err != nil {
					logger.Error("plot not recorded",
						logging.String(logging.FieldPath, path),
						logging.String(logging.FieldKind, kind),
						logging.Error(err),
					)
					return fmt.Errorf("log plot %s: %w", path, err)
				}
				if bar != nil {
					if err := bar.Add(1); err != nil {
						return err
					}
				}
			}
			if bar != nil {
				if err := bar.Finish(); err != nil {
					return err
				}
			}

			logger.Info("plots recorded",
				logging.String(logging.FieldKind, kind),
				logging.Int("count", len(args)),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Plot kind, e.g. validation_predictions")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "Payload encoding (image, html, df); inferred from the file extension when empty")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log plot metadata instead of storing it")
	return cmd
}

func newPlotListCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plots stored for the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.chartsStore()
			if err != nil {
				return err
			}
			records, err := store.List(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if ctx.wantJSON() {
				if records == nil {
					records = []sink.Record{}
				}
				return writeJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plots stored")
				return nil
			}

			title := cases.Title(language.Und)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					shortID(rec.ID),
					rec.Kind,
					title.String(string(rec.Encoding)),
					fmt.Sprintf("%d", len(rec.Data)),
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Kind", "Encoding", "Bytes", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only list plots of this kind")
	return cmd
}

// readPlot loads path as plot data. Images are kept as raw bytes, HTML as
// text, and data frames as JSON when the file parses as JSON.
func readPlot(path string, encoding sink.Encoding) (sink.PlotData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sink.PlotData{}, fmt.Errorf("read plot: %w", err)
	}
	if encoding == "" {
		encoding = encodingForPath(path)
	}

	switch encoding {
	case sink.EncodingImage:
		return sink.PlotData{Data: data, Encoding: encoding}, nil
	case sink.EncodingDataFrame:
		if json.Valid(data) {
			return sink.PlotData{Data: json.RawMessage(data), Encoding: encoding}, nil
		}
	}
	return sink.PlotData{Data: string(data), Encoding: encoding}, nil
}

func encodingForPath(path string) sink.Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return sink.EncodingImage
	case ".json", ".csv":
		return sink.EncodingDataFrame
	default:
		return sink.EncodingHTML
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
