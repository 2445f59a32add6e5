package testsupport

import (
	"context"
	"sync"
)

// ScriptedConfirmer answers prompts from a fixed script and records every
// message it was asked. Once the script runs out it answers no.
type ScriptedConfirmer struct {
	mu       sync.Mutex
	answers  []bool
	Messages []string
}

// NewScriptedConfirmer returns a confirmer that replies with answers in order.
func NewScriptedConfirmer(answers ...bool) *ScriptedConfirmer {
	return &ScriptedConfirmer{answers: answers}
}

func (c *ScriptedConfirmer) Confirm(message string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Messages = append(c.Messages, message)
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

// RecordingPlayer records each path it is asked to play without starting a
// process.
type RecordingPlayer struct {
	mu       sync.Mutex
	Played   []string
	ExitCode int
	// Err, when set, is returned from every Play call.
	Err error
}

func (p *RecordingPlayer) Play(_ context.Context, path string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return -1, p.Err
	}
	p.Played = append(p.Played, path)
	return p.ExitCode, nil
}
