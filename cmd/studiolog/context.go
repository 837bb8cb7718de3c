package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"studiolog/internal/config"
	"studiolog/internal/logging"
	"studiolog/internal/sink"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool
	quietFlag  *bool

	stdout   io.Writer
	registry *logging.Registry

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	charts *sink.Store
}

func newCommandContext(configFlag *string, jsonFlag, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
		quietFlag:  quietFlag,
		stdout:     os.Stdout,
	}
}

// bind directs console logging and output-mode detection at the executing
// command's streams.
func (c *commandContext) bind(cmd *cobra.Command) {
	c.stdout = cmd.OutOrStdout()
	if c.registry == nil {
		c.registry = logging.NewRegistry(logging.WithConsoleWriter(cmd.ErrOrStderr()))
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.loggingRegistry().Initialize(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) loggingRegistry() *logging.Registry {
	if c.registry == nil {
		c.registry = logging.NewRegistry()
	}
	return c.registry
}

// logger returns the CLI's logger. With --quiet only warnings and errors pass.
func (c *commandContext) logger() *slog.Logger {
	logger := logging.NewComponentLogger(c.loggingRegistry().Logger("studiolog"), "cli")
	if c.quietFlag != nil && *c.quietFlag {
		return logging.WithLevelOverride(logger, slog.LevelWarn)
	}
	return logger
}

// chartsStore opens the charts database of the configured output directory
// once per invocation.
func (c *commandContext) chartsStore() (*sink.Store, error) {
	if c.charts != nil {
		return c.charts, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := sink.OpenDir(cfg.OutputDirectory, c.loggingRegistry().Logger(logging.DiskCacheLogger))
	if err != nil {
		return nil, err
	}
	c.charts = store
	return store, nil
}

func (c *commandContext) close() error {
	var errs []error
	if c.charts != nil {
		errs = append(errs, c.charts.Close())
		c.charts = nil
	}
	if c.registry != nil {
		errs = append(errs, c.registry.Reset())
	}
	return errors.Join(errs...)
}

// wantJSON reports whether output should be JSON rather than a table.
func (c *commandContext) wantJSON() bool {
	if c.jsonFlag != nil && *c.jsonFlag {
		return true
	}
	return !isTerminal(c.stdout)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
