package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LocalRankEnv is set by distributed launchers for every worker process.
const LocalRankEnv = "LOCAL_RANK"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEnvironment(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.OutputDirectory) == "" {
		c.OutputDirectory = defaultOutputDirectory
	}
	var err error
	if c.OutputDirectory, err = expandPath(c.OutputDirectory); err != nil {
		return fmt.Errorf("output_directory: %w", err)
	}
	return nil
}

func (c *Config) normalizeEnvironment() error {
	value, ok := os.LookupEnv(LocalRankEnv)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	rank, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: invalid rank %q: %w", LocalRankEnv, value, err)
	}
	c.Environment.LocalRank = rank
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
