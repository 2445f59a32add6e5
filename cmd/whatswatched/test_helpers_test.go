package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"whatswatched/internal/playback"
	"whatswatched/internal/testsupport"
	"whatswatched/internal/watchindex"
)

var fixedNow = time.Date(2025, 3, 14, 21, 5, 0, 0, time.Local)

type cliTestEnv struct {
	dir        string
	configPath string
	player     *testsupport.RecordingPlayer
	deps       runtimeDeps
}

func setupCLITestEnv(t *testing.T, names ...string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithPlayerCommand("mpv", "--really-quiet"))
	configPath := filepath.Join(t.TempDir(), "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	player := &testsupport.RecordingPlayer{}
	return &cliTestEnv{
		dir:        testsupport.MediaDir(t, names...),
		configPath: configPath,
		player:     player,
		deps: runtimeDeps{
			newPlayer: func([]string, *slog.Logger) playback.Player { return player },
			now:       func() time.Time { return fixedNow },
		},
	}
}

// run executes the CLI against the env directory with stdin fed from input.
func (e *cliTestEnv) run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, e.deps, input, append([]string{"--config", e.configPath, "--dir", e.dir}, args...))
}

func (e *cliTestEnv) indexPath() string {
	return filepath.Join(e.dir, ".whatswatched.json")
}

func (e *cliTestEnv) readDocument(t *testing.T) *watchindex.Document {
	t.Helper()
	var doc watchindex.Document
	if err := json.Unmarshal(testsupport.ReadFile(t, e.indexPath()), &doc); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	return &doc
}

func runCLI(t *testing.T, deps runtimeDeps, input string, args []string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), deps, input, args)
}

func runCLIContext(t *testing.T, ctx context.Context, deps runtimeDeps, input string, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err = %v", path, err)
	}
}
