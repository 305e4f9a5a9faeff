package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Dialog prompts with an autocompleting text input. Choices are offered as
// suggestions and Tab accepts the highlighted one. It needs a terminal.
type Dialog struct {
	in  io.Reader
	out io.Writer
}

// NewDialog creates a dialog prompter bound to in and out.
func NewDialog(in io.Reader, out io.Writer) *Dialog {
	return &Dialog{in: in, out: out}
}

// Ask runs the dialog until an answer validates or the user cancels.
func (d *Dialog) Ask(ctx context.Context, q Question) (string, error) {
	program := tea.NewProgram(newDialogModel(q),
		tea.WithInput(d.in),
		tea.WithOutput(d.out),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("dialog failed: %w", err)
	}

	m, ok := final.(dialogModel)
	if !ok {
		return "", fmt.Errorf("dialog failed: unexpected model %T", final)
	}
	if m.aborted {
		return "", ErrAborted
	}
	return m.value, nil
}

// Confirm asks a yes/no question through the dialog.
func (d *Dialog) Confirm(ctx context.Context, text string, def bool) (bool, error) {
	answer, err := d.Ask(ctx, confirmQuestion(text, def))
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

type dialogModel struct {
	question Question
	input    textinput.Model
	errMsg   string
	value    string
	done     bool
	aborted  bool
}

func newDialogModel(q Question) dialogModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = q.Default
	input.CharLimit = 256
	if len(q.Choices) > 0 {
		input.ShowSuggestions = true
		input.SetSuggestions(q.Choices)
	}
	input.Focus()

	return dialogModel{question: q, input: input}
}

func (m dialogModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			res := m.question.Check(m.input.Value())
			if res.Retry {
				m.errMsg = res.Reason
				return m, nil
			}
			m.value = res.Value
			m.done = true
			return m, tea.Quit
		}
		m.errMsg = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m dialogModel) View() string {
	label := questionStyle.Render(m.question.Text)
	if m.question.Hint != "" {
		label += " " + hintStyle.Render(m.question.Hint)
	}

	if m.done {
		return label + " " + answerStyle.Render(m.value) + "\n"
	}
	if m.aborted {
		return label + "\n"
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	return b.String()
}
