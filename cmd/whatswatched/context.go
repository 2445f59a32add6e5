package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"whatswatched/internal/config"
	"whatswatched/internal/logging"
	"whatswatched/internal/playback"
)

// runtimeDeps holds the pieces tests replace.
type runtimeDeps struct {
	newPlayer func(command []string, logger *slog.Logger) playback.Player
	now       func() time.Time
}

func defaultDeps() runtimeDeps {
	return runtimeDeps{
		newPlayer: func(command []string, logger *slog.Logger) playback.Player {
			return playback.NewCommandPlayer(command, logger)
		},
		now: time.Now,
	}
}

type commandContext struct {
	configFlag *string
	verbose    *bool
	deps       runtimeDeps

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool, deps runtimeDeps) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		deps:       deps,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the invocation logger, tagged with a fresh session id.
func (c *commandContext) newLogger(stderr io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	verbose := c.verbose != nil && *c.verbose
	logger, err := logging.NewFromConfig(cfg, stderr, verbose)
	if err != nil {
		return nil, err
	}
	return logger.With(logging.String(logging.FieldSessionID, uuid.NewString())), nil
}

func (c *commandContext) player(command []string, logger *slog.Logger) playback.Player {
	return c.deps.newPlayer(command, logger)
}

func (c *commandContext) now() time.Time {
	return c.deps.now()
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
