package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var ErrInputAborted = errors.New("input aborted")

// IPrompter displays a message and returns the next line the operator typed.
// Notify shows a message to the operator regardless of the log level.
type IPrompter interface {
	Prompt(message string) (string, error)
	Notify(message string)
}

type ConsolePrompter struct {
	Instance *readline.Instance
	Output   io.Writer
	Label    *color.Color
	Notice   *color.Color
}

func NewConsolePrompter(stdin io.ReadCloser, stdout io.Writer) (*ConsolePrompter, error) {
	instance, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open console: %w", err)
	}

	return &ConsolePrompter{
		Instance: instance,
		Output:   stdout,
		Label:    color.New(color.FgCyan, color.Bold),
		Notice:   color.New(color.FgYellow),
	}, nil
}

func (console *ConsolePrompter) Prompt(message string) (string, error) {
	console.Instance.SetPrompt(console.Label.Sprint(message))

	line, err := console.Instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrInputAborted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (console *ConsolePrompter) Notify(message string) {
	fmt.Fprintln(console.Output, console.Notice.Sprint(message))
}

func (console *ConsolePrompter) Close() error {
	return console.Instance.Close()
}

// ScriptedPrompter answers prompts from a fixed list, recording every message
// it was asked and every notice it was shown.
type ScriptedPrompter struct {
	Answers []string
	Prompts []string
	Notices []string
}

func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (scripted *ScriptedPrompter) Prompt(message string) (string, error) {
	scripted.Prompts = append(scripted.Prompts, message)
	if len(scripted.Answers) == 0 {
		return "", ErrInputAborted
	}

	answer := scripted.Answers[0]
	scripted.Answers = scripted.Answers[1:]
	return answer, nil
}

func (scripted *ScriptedPrompter) Notify(message string) {
	scripted.Notices = append(scripted.Notices, message)
}

// Remaining reports how many scripted answers were never consumed.
func (scripted *ScriptedPrompter) Remaining() int {
	return len(scripted.Answers)
}
