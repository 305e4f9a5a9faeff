package prompt

import (
	"context"
	"errors"
	"io"

	"golang.org/x/term"
)

type fdStream interface {
	Fd() uintptr
}

// Interactive prefers the dialog and falls back to a line question when the
// streams are not terminals or the dialog cannot start.
type Interactive struct {
	dialog   *Dialog
	line     *LineQuestion
	terminal bool
}

// NewInteractive creates a prompter over in and out, usually os.Stdin and
// os.Stdout.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{
		dialog:   NewDialog(in, out),
		line:     NewLineQuestion(in, out),
		terminal: isTerminal(in) && isTerminal(out),
	}
}

// Terminal reports whether the dialog will be tried.
func (p *Interactive) Terminal() bool {
	return p.terminal
}

func (p *Interactive) Ask(ctx context.Context, q Question) (string, error) {
	if p.terminal {
		answer, err := p.dialog.Ask(ctx, q)
		if err == nil || errors.Is(err, ErrAborted) {
			return answer, err
		}
		// The dialog failed to drive the terminal; stay on plain lines.
		p.terminal = false
	}
	return p.line.Ask(ctx, q)
}

func (p *Interactive) Confirm(ctx context.Context, text string, def bool) (bool, error) {
	answer, err := p.Ask(ctx, confirmQuestion(text, def))
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(fdStream)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
