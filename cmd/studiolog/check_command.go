package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"studiolog/internal/logging"
	"studiolog/internal/sink"
)

type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the run context can be logged",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := []checkResult{
				{Name: "config", OK: true, Detail: ctx.configPath},
				{Name: "local_rank", OK: true, Detail: strconv.Itoa(cfg.Environment.LocalRank)},
				{Name: "logs_to_output", OK: true, Detail: yesNo(cfg.LogsToOutput())},
				checkWritable("output_directory", cfg.OutputDirectory),
			}
			if cfg.LogsToOutput() {
				results = append(results, checkExists("experiment_log", filepath.Join(cfg.OutputDirectory, logging.ExperimentLogFile)))
			}
			results = append(results, checkExists("charts_db", filepath.Join(cfg.OutputDirectory, sink.ChartsFile)))

			if ctx.wantJSON() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, res := range results {
					rows = append(rows, []string{res.Name, yesNo(res.OK), res.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "OK", "Detail"}, rows, nil))
			}

			for _, res := range results {
				if !res.OK && res.Name == "output_directory" {
					return fmt.Errorf("output directory %s is not writable", cfg.OutputDirectory)
				}
			}
			return nil
		},
	}
}

// checkWritable probes dir, or its nearest existing parent when dir has not
// been created yet.
func checkWritable(name, dir string) checkResult {
	target := dir
	for {
		if _, err := os.Stat(target); err == nil {
			break
		}
		parent := filepath.Dir(target)
		if parent == target {
			break
		}
		target = parent
	}
	if err := unix.Access(target, unix.W_OK); err != nil {
		return checkResult{Name: name, OK: false, Detail: fmt.Sprintf("%s: %v", target, err)}
	}
	return checkResult{Name: name, OK: true, Detail: dir}
}

// checkExists reports optional artifacts; a missing file is informational.
func checkExists(name, path string) checkResult {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return checkResult{Name: name, OK: true, Detail: "not created yet"}
	case err != nil:
		return checkResult{Name: name, OK: false, Detail: err.Error()}
	default:
		return checkResult{Name: name, OK: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
	}
}
