package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/oshokin/fivem-installer/internal/logger"
)

// ErrAborted is returned when the operator declines to continue.
var ErrAborted = errors.New("aborted by operator")

// Prompter asks questions.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title string, def bool) (bool, error)
	// Input asks for a line of text, returning def for an empty answer.
	Input(ctx context.Context, title, def string, validate func(string) error) (string, error)
	// Password asks for a hidden value.
	Password(ctx context.Context, title string) (string, error)
	// Select asks to pick one of options.
	Select(ctx context.Context, title string, options []Option, def string) (string, error)
	// WaitForConfirmation blocks until the operator finishes a manual step.
	WaitForConfirmation(ctx context.Context, message string) error
}

// Option is a selectable answer.
type Option struct {
	Label string
	Value string
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// New returns a huh prompter on a terminal and a defaults prompter otherwise.
func New() Prompter {
	if Interactive() {
		return Huh{}
	}

	return Defaults{}
}

// Huh asks questions with charmbracelet/huh forms.
type Huh struct{}

// Confirm implements Prompter.
func (Huh) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	value := def

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&value),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}

	return value, nil
}

// Input implements Prompter.
func (Huh) Input(ctx context.Context, title, def string, validate func(string) error) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Placeholder(def).
		Value(&value)

	if validate != nil {
		input = input.Validate(func(s string) error {
			if s == "" {
				return nil
			}

			return validate(s)
		})
	}

	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		return "", err
	}

	if value == "" {
		return def, nil
	}

	return value, nil
}

// Password implements Prompter.
func (Huh) Password(ctx context.Context, title string) (string, error) {
	var value string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errEmptyAnswer
					}

					return nil
				}).
				Value(&value),
		),
	).RunWithContext(ctx)
	if err != nil {
		return "", err
	}

	return value, nil
}

// Select implements Prompter.
func (Huh) Select(ctx context.Context, title string, options []Option, def string) (string, error) {
	value := def

	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&value),
		),
	).RunWithContext(ctx)
	if err != nil {
		return "", err
	}

	return value, nil
}

// WaitForConfirmation implements Prompter.
func (h Huh) WaitForConfirmation(ctx context.Context, message string) error {
	done, err := h.Confirm(ctx, message, true)
	if err != nil {
		return err
	}

	if !done {
		return ErrAborted
	}

	return nil
}

// Defaults answers every question with its default.
type Defaults struct{}

// Confirm implements Prompter.
func (Defaults) Confirm(_ context.Context, _ string, def bool) (bool, error) {
	return def, nil
}

// Input implements Prompter.
func (Defaults) Input(_ context.Context, _, def string, _ func(string) error) (string, error) {
	return def, nil
}

// Password implements Prompter.
func (Defaults) Password(context.Context, string) (string, error) {
	return "", errNoTerminal
}

// Select implements Prompter. Without a default the first option wins.
func (Defaults) Select(_ context.Context, _ string, options []Option, def string) (string, error) {
	if def != "" || len(options) == 0 {
		return def, nil
	}

	return options[0].Value, nil
}

// WaitForConfirmation implements Prompter.
func (Defaults) WaitForConfirmation(ctx context.Context, message string) error {
	logger.WarnKV(ctx, "Not waiting for a manual step without a terminal", "step", message)

	return nil
}
