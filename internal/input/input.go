// Package input collects free-text values from the user.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/do"
)

// ErrCancelled means the user dismissed the prompt; the whole operation
// aborts with no side effects.
var ErrCancelled = errors.New("input cancelled")

type Prompter interface {
	// Prompt asks for one value. An empty answer yields def, which may
	// itself be empty.
	Prompt(ctx context.Context, label, def string) (string, error)
}

type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompter(*do.Injector) (Prompter, error) {
	return &TerminalPrompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}, nil
}

func (p *TerminalPrompter) Prompt(_ context.Context, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}
