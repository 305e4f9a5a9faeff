package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// LineQuestion prompts on plain line-oriented input. It works on any reader,
// which makes it the fallback for pipes and redirected input.
type LineQuestion struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineQuestion creates a line prompter.
func NewLineQuestion(in io.Reader, out io.Writer) *LineQuestion {
	return &LineQuestion{in: bufio.NewReader(in), out: out}
}

// Ask prints the question and reads answers until one validates.
func (l *LineQuestion) Ask(ctx context.Context, q Question) (string, error) {
	for {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
		}

		fmt.Fprintf(l.out, "%s ", q.Label())
		line, err := l.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(l.out)
			if errors.Is(err, io.EOF) {
				return "", ErrAborted
			}
			return "", fmt.Errorf("failed to read answer: %w", err)
		}

		res := q.Check(line)
		if !res.Retry {
			return res.Value, nil
		}
		fmt.Fprintln(l.out, res.Reason)
	}
}

// Confirm asks a yes/no question.
func (l *LineQuestion) Confirm(ctx context.Context, text string, def bool) (bool, error) {
	answer, err := l.Ask(ctx, confirmQuestion(text, def))
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}
