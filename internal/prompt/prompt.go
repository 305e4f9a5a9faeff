// Package prompt asks the user for values on the terminal. Answers are
// validated in an explicit loop: an invalid answer produces a retry with a
// reason instead of an error, so only cancellation escapes a prompt.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAborted is returned when input ends or the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// InvalidChoiceError reports an answer that is not one of the offered choices.
type InvalidChoiceError struct {
	Answer  string
	Choices []string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("'%s' does not exist", e.Answer)
}

// Validator normalizes an answer or rejects it.
type Validator func(answer string) (string, error)

// Question is a single prompt.
type Question struct {
	Text     string
	Hint     string
	Choices  []string
	Default  string
	Validate Validator
}

// Result is the outcome of checking one answer.
type Result struct {
	Value  string
	Retry  bool
	Reason string
}

// Label renders the question line shown before the cursor.
func (q Question) Label() string {
	label := q.Text
	if q.Hint != "" {
		label += " " + q.Hint
	}
	if q.Default != "" {
		label += fmt.Sprintf(" [%s]", q.Default)
	}
	return label
}

// Check validates an answer. Choices imply a Choice validator when no
// explicit validator is set; without either, every answer is accepted.
func (q Question) Check(answer string) Result {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = q.Default
	}

	validate := q.Validate
	if validate == nil && len(q.Choices) > 0 {
		validate = Choice(q.Choices)
	}
	if validate == nil {
		return Result{Value: answer}
	}

	value, err := validate(answer)
	if err != nil {
		return Result{Retry: true, Reason: err.Error()}
	}
	return Result{Value: value}
}

// Choice accepts exactly one of choices.
func Choice(choices []string) Validator {
	return func(answer string) (string, error) {
		for _, choice := range choices {
			if choice == answer {
				return answer, nil
			}
		}
		return "", &InvalidChoiceError{Answer: answer, Choices: choices}
	}
}

// NonEmpty rejects blank answers.
func NonEmpty(answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", errors.New("a value is required")
	}
	return answer, nil
}

// Prompter asks questions and confirmations.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, text string, def bool) (bool, error)
}

func confirmQuestion(text string, def bool) Question {
	hint := "[Y/n]"
	if !def {
		hint = "[y/N]"
	}
	q := Question{
		Text:    text,
		Hint:    hint,
		Choices: []string{"yes", "no"},
		Validate: func(answer string) (string, error) {
			switch strings.ToLower(answer) {
			case "":
				if def {
					return "yes", nil
				}
				return "no", nil
			case "y", "yes":
				return "yes", nil
			case "n", "no":
				return "no", nil
			}
			return "", errors.New("please answer yes or no")
		},
	}
	return q
}
