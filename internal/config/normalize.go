package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
)

func (c *Config) normalize() error {
	if err := c.normalizePlayer(); err != nil {
		return err
	}
	c.normalizeIndex()
	return c.normalizeLogging()
}

func (c *Config) normalizePlayer() error {
	command := make([]string, 0, len(c.Player.Command))
	for _, word := range c.Player.Command {
		if word = strings.TrimSpace(word); word != "" {
			command = append(command, word)
		}
	}
	if len(command) == 0 {
		if value, ok := os.LookupEnv(PlayerEnvVar); ok && strings.TrimSpace(value) != "" {
			words, err := SplitCommand(value)
			if err != nil {
				return fmt.Errorf("%s: %w", PlayerEnvVar, err)
			}
			command = words
		}
	}
	if len(command) == 0 {
		command = defaultPlayerCommand()
	}
	c.Player.Command = command
	return nil
}

func (c *Config) normalizeIndex() {
	c.Index.Filename = strings.TrimSpace(c.Index.Filename)
	if c.Index.Filename == "" {
		c.Index.Filename = defaultIndexFilename
	}

	exts := make([]string, 0, len(c.Index.Extensions))
	seen := make(map[string]struct{}, len(c.Index.Extensions))
	for _, ext := range c.Index.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Index.Extensions = exts
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

// SplitCommand splits a player command line on shell-word boundaries,
// honouring quotes and backslash escapes.
func SplitCommand(line string) ([]string, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	return words, nil
}
