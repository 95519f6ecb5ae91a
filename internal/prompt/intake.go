package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// skipOption lets optional select fields stay unanswered.
const skipOption = "(skip)"

// Options tunes Collect.
type Options struct {
	// StrictNumbers re-asks number fields whose answer does not parse.
	StrictNumbers bool
}

// Collect asks one question per registry field that docs read, either
// through a target or a layout rule, and returns the answers as a record.
func Collect(ctx context.Context, driver Driver, reg *registry.Registry, docs []registry.DocumentID, opts Options) (intake.Record, error) {
	if driver == nil {
		return intake.Record{}, errors.New("prompt: driver is required")
	}
	if reg == nil {
		return intake.Record{}, errors.New("prompt: registry is required")
	}
	if len(docs) == 0 {
		docs = registry.Documents()
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.String()
	}
	if err := driver.Note(ctx, "Filling "+strings.Join(names, ", ")); err != nil {
		return intake.Record{}, fmt.Errorf("prompt: %w", err)
	}

	used := reg.UsedBy(docs...)
	answers := make(map[string]intake.Value)
	for _, field := range reg.Fields() {
		if !used[field.ID] {
			continue
		}
		value, err := ask(ctx, driver, field, opts)
		if err != nil {
			return intake.Record{}, fmt.Errorf("prompt: %s: %w", field.ID, err)
		}
		answers[field.ID] = value
	}
	return intake.NewRecord(answers), nil
}

func ask(ctx context.Context, driver Driver, field registry.FieldDefinition, opts Options) (intake.Value, error) {
	q := Question{Label: field.Label, Help: field.Help}
	if q.Label == "" {
		q.Label = field.ID
	}

	switch field.Kind {
	case registry.KindCheckbox:
		ok, err := driver.YesNo(ctx, q)
		if err != nil {
			return intake.Value{}, err
		}
		return intake.Flag(ok), nil
	case registry.KindSelect:
		q.Options = append([]string(nil), field.Options...)
		if !field.Required {
			q.Options = append(q.Options, skipOption)
		}
		choice, err := driver.Choose(ctx, q)
		if err != nil {
			return intake.Value{}, err
		}
		if choice == skipOption || !slices.Contains(field.Options, choice) {
			return intake.Text(""), nil
		}
		return intake.Text(choice), nil
	default:
		q.Validate = validator(field, opts)
		answer, err := driver.Text(ctx, q)
		if err != nil {
			return intake.Value{}, err
		}
		return intake.Text(strings.TrimSpace(answer)), nil
	}
}

func validator(field registry.FieldDefinition, opts Options) func(string) error {
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if field.Required && answer == "" {
			return errors.New("an answer is required")
		}
		if field.Kind == registry.KindNumber && opts.StrictNumbers && answer != "" {
			if !intake.IsStrictNumber(answer) {
				return errors.New("enter a number, for example 125.50")
			}
		}
		return nil
	}
}
