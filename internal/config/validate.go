package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.OutputDirectory == "" {
		return errors.New("output_directory must be set")
	}
	if c.Environment.LocalRank < 0 {
		return fmt.Errorf("environment.local_rank must be >= 0, got %d", c.Environment.LocalRank)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want text or json)", c.Logging.Format)
	}
	return nil
}
