package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"whatswatched/internal/logging"
	"whatswatched/internal/watchindex"
)

// DocumentSaver persists a watch document for a directory.
// *watchindex.Store satisfies it.
type DocumentSaver interface {
	Save(dir string, doc *watchindex.Document) error
}

// Options wires a Controller to its document and capabilities.
type Options struct {
	Dir       string
	Document  *watchindex.Document
	Saver     DocumentSaver
	Confirmer Confirmer
	Player    Player
	// Output receives user-facing status lines.
	Output io.Writer
	Now    func() time.Time
	Logger *slog.Logger
}

// Request selects how a session starts. A non-empty Open plays that file
// right away, without the play prompt.
type Request struct {
	Open string
}

// Result describes a finished session.
type Result struct {
	Played  []string
	Final   State
	Outcome Outcome
}

// Controller runs the interactive play / confirm / advance loop.
type Controller struct {
	dir       string
	doc       *watchindex.Document
	saver     DocumentSaver
	confirmer Confirmer
	player    Player
	out       io.Writer
	now       func() time.Time
	logger    *slog.Logger

	state State
}

// New builds a Controller. Document, Saver, Confirmer, and Player are required.
func New(opts Options) (*Controller, error) {
	switch {
	case opts.Document == nil:
		return nil, errors.New("playback: document is required")
	case opts.Saver == nil:
		return nil, errors.New("playback: saver is required")
	case opts.Confirmer == nil:
		return nil, errors.New("playback: confirmer is required")
	case opts.Player == nil:
		return nil, errors.New("playback: player is required")
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		dir:       opts.Dir,
		doc:       opts.Document,
		saver:     opts.Saver,
		confirmer: opts.Confirmer,
		player:    opts.Player,
		out:       out,
		now:       now,
		logger:    logging.NewComponentLogger(opts.Logger, "playback"),
		state:     StateIdle,
	}, nil
}

// State returns the state the controller is currently in.
func (c *Controller) State() State {
	return c.state
}

// Run drives one session until it reaches StateDone or fails. A cancelled ctx
// ends the session before the next step. Watch state confirmed in earlier
// iterations stays saved when a later one fails.
func (c *Controller) Run(ctx context.Context, req Request) (Result, error) {
	var result Result

	candidate, prompt, err := c.initialCandidate(req)
	if err != nil {
		return result, err
	}
	if candidate == "" {
		fmt.Fprintln(c.out, "no unwatched files")
		result.Outcome = OutcomeNoUnwatched
		c.transition(StateDone)
		result.Final = c.state
		return result, nil
	}
	c.transition(StateAwaitingConfirmPlay)

	var next string
	var hasNext bool
	for {
		if err := ctx.Err(); err != nil && c.state != StateDone {
			return c.finish(result), err
		}
		switch c.state {
		case StateAwaitingConfirmPlay:
			if prompt != "" {
				ok, err := c.confirmer.Confirm(fmt.Sprintf("%s %s", prompt, candidate))
				if err != nil {
					return c.finish(result), err
				}
				if !ok {
					fmt.Fprintln(c.out, "OK bye")
					result.Outcome = OutcomeDeclinedPlay
					c.transition(StateDone)
					continue
				}
			}
			c.transition(StatePlaying)

		case StatePlaying:
			path := c.pathOf(candidate)
			code, err := c.player.Play(ctx, path)
			if err != nil {
				return c.finish(result), err
			}
			result.Played = append(result.Played, candidate)
			if code != 0 {
				logging.WarnWithContext(c.logger, "player exited with non-zero status", "player_exit_nonzero",
					logging.String(logging.FieldEpisode, candidate),
					logging.Int("exit_code", code),
					logging.String(logging.FieldImpact, "playback is still treated as attempted"),
					logging.String(logging.FieldErrorHint, "check the player output above"))
			}
			c.transition(StateAwaitingConfirmWatched)

		case StateAwaitingConfirmWatched:
			ok, err := c.confirmer.Confirm("mark media as watched?")
			if err != nil {
				return c.finish(result), err
			}
			if !ok {
				fmt.Fprintln(c.out, "OK bye")
				result.Outcome = OutcomeDeclinedWatched
				c.transition(StateDone)
				continue
			}
			next, hasNext, err = c.markWatched(candidate)
			if err != nil {
				return c.finish(result), err
			}
			c.transition(StateAdvancing)

		case StateAdvancing:
			if !hasNext {
				fmt.Fprintln(c.out, "no more episodes")
				result.Outcome = OutcomeNoMoreEpisodes
				c.transition(StateDone)
				continue
			}
			candidate = next
			prompt = "play next episode?"
			c.transition(StateAwaitingConfirmPlay)

		case StateDone:
			return c.finish(result), nil

		default:
			return c.finish(result), fmt.Errorf("playback: unexpected state %s", c.state)
		}
	}
}

// initialCandidate picks the first file of the session and the prompt to
// show before playing it. An empty prompt skips confirmation.
func (c *Controller) initialCandidate(req Request) (string, string, error) {
	if req.Open != "" {
		if _, ok := c.doc.Files[req.Open]; !ok {
			return "", "", fmt.Errorf("%w: %s", watchindex.ErrNotFound, req.Open)
		}
		return req.Open, "", nil
	}
	name, _, ok, err := c.doc.Current()
	if err != nil {
		return "", "", err
	}
	if ok {
		return name, "play current episode?", nil
	}
	if name, ok := c.doc.FirstUnwatched(); ok {
		return name, "play current episode?", nil
	}
	return "", "", nil
}

func (c *Controller) markWatched(name string) (string, bool, error) {
	if _, err := c.doc.MarkWatched(c.now(), name); err != nil {
		return "", false, err
	}
	next, ok := c.doc.Successor(name)
	if ok {
		if err := c.doc.SetCurrent(next); err != nil {
			return "", false, err
		}
	} else {
		c.doc.ClearCurrent()
	}
	if err := c.saver.Save(c.dir, c.doc); err != nil {
		return "", false, fmt.Errorf("save watch state: %w", err)
	}
	c.logger.Info("marked watched",
		logging.String(logging.FieldEpisode, name),
		logging.String("next", next))
	return next, ok, nil
}

func (c *Controller) pathOf(name string) string {
	if entry, ok := c.doc.Files[name]; ok && entry.Path != "" {
		return entry.Path
	}
	return filepath.Join(c.dir, name)
}

func (c *Controller) transition(next State) {
	c.logger.Debug("playback state change",
		logging.String("from", c.state.String()),
		logging.String("to", next.String()))
	c.state = next
}

func (c *Controller) finish(result Result) Result {
	result.Final = c.state
	return result
}
