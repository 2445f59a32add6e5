package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"whatswatched/internal/config"
	"whatswatched/internal/watchindex"
)

type rootFlags struct {
	current     string
	nullCurrent bool
	unwatched   bool
	watched     bool
	dir         string
	player      string
	open        string
	stats       bool
	jsonOutput  bool
	verbose     bool
	noBanner    bool
	configPath  string
	writeConfig string
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(defaultDeps())
}

func newRootCommandWith(deps runtimeDeps) *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(&flags.configPath, &flags.verbose, deps)

	rootCmd := &cobra.Command{
		Use:   "whatswatched [flags] [files...]",
		Short: "Track and play media progress in a directory",
		Long: `whatswatched keeps a .whatswatched.json index of the media files in a
directory and resumes playback from the current episode.

Run without flags to play the current episode (or the first unwatched one),
confirm it was watched, and move on to the next file in sorted order.
File arguments are only accepted together with --watched or --unwatched;
without them every file is marked.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ctx, flags, args)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.current, "current", "c", "", "Mark a specific file as the current episode")
	f.BoolVarP(&flags.nullCurrent, "null-current", "n", false, "Clear the current episode")
	f.BoolVarP(&flags.unwatched, "unwatched", "u", false, "Mark the given files (or all files) as unwatched")
	f.BoolVarP(&flags.watched, "watched", "w", false, "Mark the given files (or all files) as watched")
	f.StringVarP(&flags.dir, "dir", "d", "", "Directory to operate on (default: current directory)")
	f.StringVarP(&flags.player, "player", "p", "", "Player command line, e.g. \"vlc --fullscreen\"")
	f.StringVarP(&flags.open, "open", "o", "", "Play a specific file, skipping the current episode")
	f.BoolVarP(&flags.stats, "stats", "s", false, "Show watch statistics")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print --stats output as JSON")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	f.BoolVar(&flags.noBanner, "no-banner", false, "Do not print the banner")
	f.StringVar(&flags.configPath, "config", "", "Configuration file path")
	f.StringVar(&flags.writeConfig, "write-config", "", "Write a sample configuration file to this path and exit")

	rootCmd.MarkFlagsMutuallyExclusive("current", "null-current", "unwatched", "watched", "open", "stats", "write-config")

	return rootCmd
}

func run(cmd *cobra.Command, ctx *commandContext, flags *rootFlags, args []string) error {
	if flags.writeConfig != "" {
		return writeSampleConfig(cmd, flags.writeConfig)
	}
	if len(args) > 0 && !flags.watched && !flags.unwatched {
		return fmt.Errorf("unexpected arguments %q: file names are only accepted with --watched or --unwatched", args)
	}
	if flags.jsonOutput && !flags.stats {
		return errors.New("--json requires --stats")
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("player") {
		words, err := config.SplitCommand(flags.player)
		if err != nil {
			return fmt.Errorf("--player: %w", err)
		}
		if len(words) == 0 {
			return errors.New("--player: command is empty")
		}
		cfg.Player.Command = words
	}

	logger, err := ctx.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	dir, err := resolveDirectory(flags.dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Display.Banner && !flags.noBanner && isTerminal(out) {
		printBanner(out)
	}

	store := watchindex.NewStoreFromConfig(cfg, logger)
	doc, _, err := store.Open(dir)
	if err != nil {
		return err
	}

	a := &action{
		cmd:    cmd,
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		store:  store,
		dir:    dir,
		doc:    doc,
	}

	switch {
	case cmd.Flags().Changed("current"):
		return a.setCurrent(flags.current)
	case flags.nullCurrent:
		return a.clearCurrent()
	case flags.watched:
		return a.markWatched(args)
	case flags.unwatched:
		return a.markUnwatched(args)
	case flags.stats:
		return a.showStats(flags.jsonOutput)
	default:
		return a.play(flags.open)
	}
}

func resolveDirectory(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: determine working directory: %w", watchindex.ErrDirectory, err)
		}
		return wd, nil
	}
	dir, err := config.ExpandPath(flagValue)
	if err != nil {
		return "", fmt.Errorf("%w: %w", watchindex.ErrDirectory, err)
	}
	return dir, nil
}

func writeSampleConfig(cmd *cobra.Command, target string) error {
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check config path: %w", err)
	}
	if err := config.CreateSample(expanded); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", expanded)
	return nil
}
