package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlayer() error {
	if len(c.Player.Command) == 0 || strings.TrimSpace(c.Player.Command[0]) == "" {
		return errors.New("player.command must name an executable")
	}
	return nil
}

func (c *Config) validateIndex() error {
	name := c.Index.Filename
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("index.filename must be a bare file name, got %q", name)
	}
	for _, ext := range c.Index.Extensions {
		if len(ext) < 2 || strings.ContainsAny(ext, `/\ `) {
			return fmt.Errorf("index.extensions: invalid extension %q", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
