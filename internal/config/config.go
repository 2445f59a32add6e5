package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Player describes how media files are handed to the external player.
type Player struct {
	// Command is the player invocation prefix; the media path is appended.
	Command []string `toml:"command"`
}

// Index controls the per-directory watch document.
type Index struct {
	Filename   string   `toml:"filename"`
	Extensions []string `toml:"extensions"`
	// PruneMissing drops indexed files that disappeared from disk during
	// reconciliation. When false, stale entries are kept untouched.
	PruneMissing bool `toml:"prune_missing"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Display contains terminal presentation switches.
type Display struct {
	Banner bool `toml:"banner"`
}

// Config encapsulates every value whatswatched reads from its config file.
type Config struct {
	Player  Player  `toml:"player"`
	Index   Index   `toml:"index"`
	Logging Logging `toml:"logging"`
	Display Display `toml:"display"`
}

// DefaultConfigPath returns the XDG location of the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// Load locates, parses, and validates a configuration file. An empty path
// selects DefaultConfigPath. A missing file yields defaults; the returned
// bool reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	// Resolved by normalizePlayer so PlayerEnvVar applies when the file has no command.
	cfg.Player.Command = nil

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
