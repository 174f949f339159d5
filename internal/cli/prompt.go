package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/studiowebux/archibus-connect/internal/form"
)

// ErrAborted is returned when the user interrupts a prompt
var ErrAborted = errors.New("prompt aborted")

// Prompter asks for field values
type Prompter interface {
	Input(label, current string) (string, error)
	Select(label string, options []string, current string) (string, error)
}

type surveyPrompter struct{}

// NewSurveyPrompter prompts on the terminal
func NewSurveyPrompter() Prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Input(label, current string) (string, error) {
	var out string
	prompt := &survey.Input{Message: label + ":", Default: current}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(label string, options []string, current string) (string, error) {
	var out string
	prompt := &survey.Select{Message: label + ":", Options: options}
	for _, opt := range options {
		if opt == current {
			prompt.Default = current
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// promptFields asks for every visible field not already given on the command line
func promptFields(f *form.Form, state form.State, p Prompter, given map[string]string) (form.State, error) {
	for _, d := range f.Visible() {
		if _, ok := given[d.Name]; ok {
			continue
		}

		var value string
		var err error
		switch kind := d.Kind.(type) {
		case form.DropdownField:
			value, err = p.Select(d.Label, kind.Options, state.Value(d.Name))
		case form.TextField:
			value, err = p.Input(d.Label, state.Value(d.Name))
		}
		if err != nil {
			return state, fmt.Errorf("failed to read %s: %w", d.Label, err)
		}

		if err := f.ValidateChoice(d.Name, value); err != nil {
			return state, err
		}
		next, err := state.SetField(d.Name, value)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}
