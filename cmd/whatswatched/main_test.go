package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"whatswatched/internal/config"
	"whatswatched/internal/playback"
	"whatswatched/internal/testsupport"
	"whatswatched/internal/watchindex"
)

func TestSetCurrent(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv")

	out, _, err := env.run(t, "", "--current", "b.mkv")
	if err != nil {
		t.Fatalf("--current: %v", err)
	}
	requireContains(t, out, "Current episode set to b.mkv")
	doc := env.readDocument(t)
	if doc.CurrentEpisode == nil || *doc.CurrentEpisode != "b.mkv" {
		t.Fatalf("current episode = %v", doc.CurrentEpisode)
	}
	if len(doc.Files) != 2 || doc.Files["a.mkv"].Path != filepath.Join(env.dir, "a.mkv") {
		t.Fatalf("unexpected files: %+v", doc.Files)
	}
}

func TestSetCurrentUnknownFileLeavesIndex(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv")
	if _, _, err := env.run(t, "", "-c", "a.mkv"); err != nil {
		t.Fatalf("-c a.mkv: %v", err)
	}
	before := testsupport.ReadFile(t, env.indexPath())
	testsupport.WriteFile(t, filepath.Join(env.dir, "c.mkv"), 16)

	for _, args := range [][]string{{"-c", "missing.mkv"}, {"-w", "missing.mkv"}, {"-u", "missing.mkv"}, {"-o", "missing.mkv"}} {
		_, _, err := env.run(t, "", args...)
		if !errors.Is(err, watchindex.ErrNotFound) {
			t.Fatalf("%v: expected ErrNotFound, got %v", args, err)
		}
		if after := testsupport.ReadFile(t, env.indexPath()); !bytes.Equal(before, after) {
			t.Fatalf("%v changed the index:\n%s\n---\n%s", args, before, after)
		}
	}
}

func TestNullCurrent(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	if _, _, err := env.run(t, "", "-c", "a.mkv"); err != nil {
		t.Fatalf("-c: %v", err)
	}
	out, _, err := env.run(t, "", "-n")
	if err != nil {
		t.Fatalf("-n: %v", err)
	}
	requireContains(t, out, "Current episode cleared")
	if doc := env.readDocument(t); doc.CurrentEpisode != nil {
		t.Fatalf("current episode = %q, want none", *doc.CurrentEpisode)
	}
}

func TestMarkWatchedAndUnwatched(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv", "c.mkv")

	out, _, err := env.run(t, "", "-w", "a.mkv", "c.mkv")
	if err != nil {
		t.Fatalf("-w files: %v", err)
	}
	requireContains(t, out, "Marked 2 files as watched")
	doc := env.readDocument(t)
	if !doc.Files["a.mkv"].Watched || doc.Files["b.mkv"].Watched || !doc.Files["c.mkv"].Watched {
		t.Fatalf("unexpected watch flags: %+v", doc.Files)
	}
	if stamp := doc.Files["a.mkv"].WatchedDate; stamp == nil || !stamp.Equal(fixedNow) {
		t.Fatalf("watched date = %v, want %v", stamp, fixedNow)
	}

	out, _, err = env.run(t, "", "-u", "a.mkv")
	if err != nil {
		t.Fatalf("-u file: %v", err)
	}
	requireContains(t, out, "Marked 1 file as unwatched")
	if doc := env.readDocument(t); doc.Files["a.mkv"].Watched || doc.Files["a.mkv"].WatchedDate != nil {
		t.Fatalf("a.mkv still watched: %+v", doc.Files["a.mkv"])
	}

	if _, _, err := env.run(t, "", "-w"); err != nil {
		t.Fatalf("-w all: %v", err)
	}
	for name, entry := range env.readDocument(t).Files {
		if !entry.Watched {
			t.Fatalf("%s not watched after -w", name)
		}
	}

	if _, _, err := env.run(t, "", "-u"); err != nil {
		t.Fatalf("-u all: %v", err)
	}
	for name, entry := range env.readDocument(t).Files {
		if entry.Watched || entry.WatchedDate != nil {
			t.Fatalf("%s still watched after -u", name)
		}
	}
}

func TestMarkWatchedUnknownFile(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	_, _, err := env.run(t, "", "-w", "a.mkv", "nope.mkv")
	if !errors.Is(err, watchindex.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	requireNoFile(t, env.indexPath())
}

func TestStatsSummary(t *testing.T) {
	names := []string{"01.mkv", "02.mkv", "03.mkv", "04.mkv", "05.mkv", "06.mkv", "07.mkv", "08.mkv", "09.mkv", "10.mkv"}
	env := setupCLITestEnv(t, names...)
	if _, _, err := env.run(t, "", "-w", "01.mkv", "02.mkv", "03.mkv"); err != nil {
		t.Fatalf("-w: %v", err)
	}

	out, _, err := env.run(t, "", "--stats")
	if err != nil {
		t.Fatalf("--stats: %v", err)
	}
	requireContains(t, out, "3/10 episodes watched (30% complete)")
	requireContains(t, out, "Watched (3)")
	requireContains(t, out, "Unwatched (7)")
	requireContains(t, out, "Current episode: none")
	for _, name := range names {
		requireContains(t, out, name)
	}
	if len(env.player.Played) != 0 {
		t.Fatalf("stats started playback: %v", env.player.Played)
	}
}

func TestStatsJSON(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv", "c.mkv", "d.mkv")
	if _, _, err := env.run(t, "", "-w", "a.mkv"); err != nil {
		t.Fatalf("-w: %v", err)
	}
	if _, _, err := env.run(t, "", "-c", "b.mkv"); err != nil {
		t.Fatalf("-c: %v", err)
	}

	out, _, err := env.run(t, "", "-s", "--json")
	if err != nil {
		t.Fatalf("-s --json: %v", err)
	}
	requireContains(t, out, `"watched": [`)
	requireContains(t, out, `"total": 4`)
	requireContains(t, out, `"percent": 25`)
	requireContains(t, out, `"current_episode": "b.mkv"`)
}

func TestDeclinePlayLeavesIndex(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv")
	if _, _, err := env.run(t, "", "-n"); err != nil {
		t.Fatalf("-n: %v", err)
	}
	before := testsupport.ReadFile(t, env.indexPath())
	testsupport.WriteFile(t, filepath.Join(env.dir, "c.mkv"), 16)

	out, _, err := env.run(t, "n\n")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "play current episode? a.mkv\nY/n? ")
	requireContains(t, out, "OK bye")
	if len(env.player.Played) != 0 {
		t.Fatalf("player invoked: %v", env.player.Played)
	}
	if after := testsupport.ReadFile(t, env.indexPath()); !bytes.Equal(before, after) {
		t.Fatalf("index changed:\n%s\n---\n%s", before, after)
	}
}

func TestPlayWalksEpisodes(t *testing.T) {
	env := setupCLITestEnv(t, "b.mkv", "a.mkv")

	out, _, err := env.run(t, "y\ny\n\nyes\n")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "play current episode? a.mkv")
	requireContains(t, out, "play next episode? b.mkv")
	requireContains(t, out, "no more episodes")

	want := []string{filepath.Join(env.dir, "a.mkv"), filepath.Join(env.dir, "b.mkv")}
	if !reflect.DeepEqual(env.player.Played, want) {
		t.Fatalf("played %v, want %v", env.player.Played, want)
	}
	doc := env.readDocument(t)
	if doc.CurrentEpisode != nil {
		t.Fatalf("current episode = %q, want none", *doc.CurrentEpisode)
	}
	for name, entry := range doc.Files {
		if !entry.Watched {
			t.Fatalf("%s not watched", name)
		}
	}
}

func TestPlayNothingUnwatched(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	if _, _, err := env.run(t, "", "-w"); err != nil {
		t.Fatalf("-w: %v", err)
	}
	out, _, err := env.run(t, "")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "no unwatched files")
	if len(env.player.Played) != 0 {
		t.Fatalf("player invoked: %v", env.player.Played)
	}
}

func TestOpenPlaysFileDirectly(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv", "c.mkv")

	out, _, err := env.run(t, "y\n", "--open", "b.mkv")
	if err != nil {
		t.Fatalf("--open: %v", err)
	}
	if strings.Contains(out, "play current episode?") {
		t.Fatalf("--open should not ask before playing: %q", out)
	}
	requireContains(t, out, "play next episode? c.mkv")
	if want := []string{filepath.Join(env.dir, "b.mkv")}; !reflect.DeepEqual(env.player.Played, want) {
		t.Fatalf("played %v, want %v", env.player.Played, want)
	}
	doc := env.readDocument(t)
	if !doc.Files["b.mkv"].Watched || doc.Files["a.mkv"].Watched {
		t.Fatalf("unexpected watch flags: %+v", doc.Files)
	}
	if doc.CurrentEpisode == nil || *doc.CurrentEpisode != "c.mkv" {
		t.Fatalf("current episode = %v", doc.CurrentEpisode)
	}
}

func TestOpenUnknownFile(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	_, _, err := env.run(t, "", "-o", "nope.mkv")
	if !errors.Is(err, watchindex.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerFlagRunsCommand(t *testing.T) {
	logPath := testsupport.StubPlayer(t, "fakeplayer", 3)
	env := setupCLITestEnv(t, "a.mkv")
	env.deps.newPlayer = defaultDeps().newPlayer

	if _, _, err := env.run(t, "y\nn\n", "--player", "fakeplayer --fs 'two words'"); err != nil {
		t.Fatalf("play: %v", err)
	}
	got := string(testsupport.ReadFile(t, logPath))
	want := "--fs\ntwo words\n" + filepath.Join(env.dir, "a.mkv") + "\n"
	if got != want {
		t.Fatalf("player args = %q, want %q", got, want)
	}
	requireNoFile(t, env.indexPath())
}

func TestMissingPlayerFails(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	env.deps.newPlayer = defaultDeps().newPlayer

	_, _, err := env.run(t, "y\n", "-p", "whatswatched-no-such-player")
	if !errors.Is(err, playback.ErrPlayerLaunch) {
		t.Fatalf("expected ErrPlayerLaunch, got %v", err)
	}
}

func TestCancelledContextEndsPlayback(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := runCLIContext(t, ctx, env.deps, "y\ny\n", []string{"--config", env.configPath, "--dir", env.dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(env.player.Played) != 0 {
		t.Fatalf("player invoked after cancellation: %v", env.player.Played)
	}
	requireNoFile(t, env.indexPath())
}

func TestStatsDoesNotWriteIndex(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv", "b.mkv")
	out, _, err := env.run(t, "", "-s")
	if err != nil {
		t.Fatalf("-s: %v", err)
	}
	requireContains(t, out, "0/2 episodes watched (0% complete)")
	requireNoFile(t, env.indexPath())
}

func TestFlagConflicts(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	cases := map[string][]string{
		"stats and watched":  {"-s", "-w"},
		"current and open":   {"-c", "a.mkv", "-o", "a.mkv"},
		"files without mark": {"a.mkv"},
		"json without stats": {"--json"},
		"empty player":       {"-p", ""},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := env.run(t, "", args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestHelpLeavesDirectoryUntouched(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	out, _, err := env.run(t, "", "-h")
	if err != nil {
		t.Fatalf("-h: %v", err)
	}
	requireContains(t, out, "--null-current")
	requireNoFile(t, env.indexPath())
}

func TestMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.dir = filepath.Join(env.dir, "gone")
	_, _, err := env.run(t, "", "-s")
	if !errors.Is(err, watchindex.ErrDirectory) {
		t.Fatalf("expected ErrDirectory, got %v", err)
	}
}

func TestCorruptIndexAborts(t *testing.T) {
	env := setupCLITestEnv(t, "a.mkv")
	if err := os.WriteFile(env.indexPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	_, _, err := env.run(t, "", "-s")
	if !errors.Is(err, watchindex.ErrCorruptIndex) {
		t.Fatalf("expected ErrCorruptIndex, got %v", err)
	}
	if got := string(testsupport.ReadFile(t, env.indexPath())); got != "{not json" {
		t.Fatalf("corrupt index rewritten: %q", got)
	}
}

func TestWriteConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err := runCLI(t, defaultDeps(), "", []string{"--write-config", target})
	if err != nil {
		t.Fatalf("--write-config: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	cfg, _, exists, err := config.Load(target)
	if err != nil || !exists {
		t.Fatalf("load written config: exists=%v err=%v", exists, err)
	}
	if len(cfg.Player.Command) == 0 {
		t.Fatal("sample config has no player command")
	}

	if _, _, err := runCLI(t, defaultDeps(), "", []string{"--write-config", target}); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
