package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("htmlkit-cli: prompt aborted")

// localePicker chooses a locale from the catalog interactively.
type localePicker interface {
	Pick(ctx context.Context, locales []string, current string) (string, error)
}

type surveyPicker struct{}

func (surveyPicker) Pick(ctx context.Context, locales []string, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(locales) == 0 {
		return current, nil
	}
	var out string
	prompt := &survey.Select{
		Message: "Render locale:",
		Options: locales,
		Help:    "Overrides the language stored in the data file.",
	}
	for _, locale := range locales {
		if locale == current {
			prompt.Default = locale
			break
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", err
	}
	return out, nil
}
