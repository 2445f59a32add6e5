package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"whatswatched/internal/logging"
)

// ErrPlayerLaunch marks a player executable that is missing or cannot start.
var ErrPlayerLaunch = errors.New("player launch failed")

// Player plays one media file and blocks until playback ends. The exit code
// is informational; only a failure to start is an error.
type Player interface {
	Play(ctx context.Context, path string) (int, error)
}

// CommandPlayer runs an external player executable with the media path
// appended to Command.
type CommandPlayer struct {
	Command []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
}

// NewCommandPlayer returns a player attached to the process's terminal.
func NewCommandPlayer(command []string, logger *slog.Logger) *CommandPlayer {
	return &CommandPlayer{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logging.NewComponentLogger(logger, "player"),
	}
}

func (p *CommandPlayer) Play(ctx context.Context, path string) (int, error) {
	if len(p.Command) == 0 {
		return -1, fmt.Errorf("%w: no player command configured", ErrPlayerLaunch)
	}
	binary, err := exec.LookPath(p.Command[0])
	if err != nil {
		return -1, fmt.Errorf("%w: %s: %w", ErrPlayerLaunch, p.Command[0], err)
	}

	args := append(append([]string{}, p.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("starting player",
		logging.String("binary", binary),
		logging.Strings("args", args))

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("%w: %s: %w", ErrPlayerLaunch, binary, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logger.Debug("player wait failed", logging.Error(err))
		}
	}
	return cmd.ProcessState.ExitCode(), nil
}
