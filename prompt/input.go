package prompt

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
)

const dateInputLayout = "01/02/2006 15:04"

type InputClient struct {
	Prompter IPrompter
	Logger   *logrus.Logger
}

func NewInputClient(prompter IPrompter, logger *logrus.Logger) *InputClient {
	return &InputClient{
		Prompter: prompter,
		Logger:   logger,
	}
}

// GetInput prompts until a non-blank answer is given and returns it trimmed.
func (input *InputClient) GetInput(message string) (string, error) {
	for {
		line, err := input.Prompter.Prompt(message)
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		input.Warn("Input cannot be blank")
	}
}

// GetTimeInput reads a "MM/DD/YYYY HH:MM" value in the named time zone and
// returns it as an RFC 3339 timestamp with the zone's offset.
func (input *InputClient) GetTimeInput(label string, timezone string) (string, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q: %w", timezone, err)
	}

	for {
		line, err := input.GetInput(fmt.Sprintf("Enter %s Date (MM/DD/YYYY HH:MM): ", label))
		if err != nil {
			return "", err
		}

		parsed, err := time.ParseInLocation(dateInputLayout, line, location)
		if err != nil {
			input.Warn(fmt.Sprintf("Invalid date %q, expected MM/DD/YYYY HH:MM", line))
			continue
		}
		return parsed.Format(time.RFC3339), nil
	}
}

func (input *InputClient) YesNoPrompt(message string) (bool, error) {
	for {
		line, err := input.GetInput(message + " (y/n) ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		input.Warn(fmt.Sprintf("Invalid answer %q, expected y or n", line))
	}
}

// Warn tells the operator why an answer was rejected and logs it.
func (input *InputClient) Warn(message string) {
	input.Prompter.Notify(message)
	input.Logger.Warn(message)
}
