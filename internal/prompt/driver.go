package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the person filling the intake presses Ctrl+C.
var ErrAborted = errors.New("prompt: aborted")

// Question is one intake question. Options is only read by Choose and
// Validate only by Text.
type Question struct {
	Label    string
	Help     string
	Options  []string
	Validate func(answer string) error
}

// Driver asks questions. Collect only talks to a Driver so tests can script
// the answers.
type Driver interface {
	Text(ctx context.Context, q Question) (string, error)
	YesNo(ctx context.Context, q Question) (bool, error)
	Choose(ctx context.Context, q Question) (string, error)
	Note(ctx context.Context, msg string) error
}

type surveyDriver struct {
	stdio terminal.Stdio
}

// NewSurveyDriver asks on the process terminal.
func NewSurveyDriver() Driver {
	return &surveyDriver{stdio: terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}}
}

func (d *surveyDriver) ask(ctx context.Context, p survey.Prompt, answer any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err))
	err := survey.AskOne(p, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) Text(ctx context.Context, q Question) (string, error) {
	var opts []survey.AskOpt
	if q.Validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, ok := ans.(string)
			if !ok {
				return fmt.Errorf("expected text, got %T", ans)
			}
			return q.Validate(s)
		}))
	}
	var answer string
	err := d.ask(ctx, &survey.Input{Message: q.Label, Help: q.Help}, &answer, opts...)
	return answer, err
}

func (d *surveyDriver) YesNo(ctx context.Context, q Question) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: q.Label, Help: q.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Choose(ctx context.Context, q Question) (string, error) {
	if len(q.Options) == 0 {
		return "", fmt.Errorf("prompt: %q has no options", q.Label)
	}
	var answer string
	err := d.ask(ctx, &survey.Select{Message: q.Label, Help: q.Help, Options: q.Options}, &answer)
	return answer, err
}

func (d *surveyDriver) Note(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.stdio.Out, msg)
	return err
}
