package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"whatswatched/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	cfg *config.Config
}

// NewConfig produces a default config for tests with the banner disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Display.Banner = false

	builder := &configBuilder{cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPruneMissing toggles stale entry pruning.
func WithPruneMissing(prune bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.PruneMissing = prune
	}
}

// WithPlayerCommand overrides the player invocation.
func WithPlayerCommand(command ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Player.Command = command
	}
}

// StubPlayer writes an executable named name into a fresh directory on PATH.
// The stub appends each argument it receives to the returned log file, one
// per line, and exits with exitCode.
func StubPlayer(t testing.TB, name string, exitCode int) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	logPath := filepath.Join(binDir, name+".log")
	script := fmt.Sprintf("#!/bin/sh\nfor arg in \"$@\"; do printf '%%s\\n' \"$arg\" >> %q; done\nexit %d\n", logPath, exitCode)
	if err := os.WriteFile(filepath.Join(binDir, name), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	content := fmt.Sprintf("[player]\ncommand = %s\n\n[index]\nfilename = %q\nprune_missing = %t\n\n[display]\nbanner = %t\n",
		tomlStrings(cfg.Player.Command), cfg.Index.Filename, cfg.Index.PruneMissing, cfg.Display.Banner)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func tomlStrings(values []string) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", v)
	}
	return out + "]"
}
