package playback

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// PromptConfirmer asks questions on a terminal-like stream pair. End of input
// is treated as a negative answer.
type PromptConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPromptConfirmer reads answers from in and writes prompts to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{reader: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(message string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s\nY/n? ", message); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			fmt.Fprintln(p.out)
			return false, nil
		}
	}
	return IsAffirmative(line), nil
}

// IsAffirmative reports whether answer accepts a Y/n prompt: empty, "y", or
// "yes", ignoring case and surrounding whitespace.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}
