package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"whatswatched/internal/config"
	"whatswatched/internal/logging"
	"whatswatched/internal/playback"
	"whatswatched/internal/watchindex"
)

// action carries the loaded index for one invocation.
type action struct {
	cmd    *cobra.Command
	ctx    *commandContext
	cfg    *config.Config
	logger *slog.Logger
	store  *watchindex.Store
	dir    string
	doc    *watchindex.Document
}

func (a *action) setCurrent(name string) error {
	if err := a.doc.SetCurrent(name); err != nil {
		return err
	}
	if err := a.store.Save(a.dir, a.doc); err != nil {
		return err
	}
	a.logger.Info("set current episode", logging.String(logging.FieldEpisode, name))
	fmt.Fprintf(a.cmd.OutOrStdout(), "Current episode set to %s\n", name)
	return nil
}

func (a *action) clearCurrent() error {
	a.doc.ClearCurrent()
	if err := a.store.Save(a.dir, a.doc); err != nil {
		return err
	}
	a.logger.Info("cleared current episode")
	fmt.Fprintln(a.cmd.OutOrStdout(), "Current episode cleared")
	return nil
}

func (a *action) markWatched(names []string) error {
	marked, err := a.doc.MarkWatched(a.ctx.now(), names...)
	if err != nil {
		return err
	}
	if err := a.store.Save(a.dir, a.doc); err != nil {
		return err
	}
	a.logger.Info("marked watched", logging.Strings("files", marked))
	fmt.Fprintf(a.cmd.OutOrStdout(), "Marked %s as watched\n", pluralFiles(len(marked)))
	return nil
}

func (a *action) markUnwatched(names []string) error {
	marked, err := a.doc.MarkUnwatched(names...)
	if err != nil {
		return err
	}
	if err := a.store.Save(a.dir, a.doc); err != nil {
		return err
	}
	a.logger.Info("marked unwatched", logging.Strings("files", marked))
	fmt.Fprintf(a.cmd.OutOrStdout(), "Marked %s as unwatched\n", pluralFiles(len(marked)))
	return nil
}

func (a *action) showStats(asJSON bool) error {
	out := a.cmd.OutOrStdout()
	if asJSON {
		return writeStatsJSON(out, a.doc.Stats())
	}
	renderStats(out, a.doc, isTerminal(out))
	return nil
}

func (a *action) play(open string) error {
	out := a.cmd.OutOrStdout()
	ctrl, err := playback.New(playback.Options{
		Dir:       a.dir,
		Document:  a.doc,
		Saver:     a.store,
		Confirmer: playback.NewPromptConfirmer(a.cmd.InOrStdin(), out),
		Player:    a.ctx.player(a.cfg.Player.Command, a.logger),
		Output:    out,
		Now:       a.ctx.now,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	result, err := ctrl.Run(contextOrBackground(a.cmd.Context()), playback.Request{Open: open})
	if err != nil {
		return err
	}
	a.logger.Debug("playback session finished",
		logging.String("outcome", string(result.Outcome)),
		logging.Int("played", len(result.Played)))
	return nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
