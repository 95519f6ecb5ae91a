package pdfform

import (
	"errors"
	"fmt"
)

// FieldType is the widget type of a template field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldCheckBox FieldType = "checkbox"
)

// Opener loads template bytes into an editable form.
type Opener interface {
	Open(data []byte) (Form, error)
}

// Form is an editable template instance. Field lookups are exact-match and
// case-sensitive. Finalize produces the filled document; a Form must not be
// edited after Finalize.
type Form interface {
	Fields() map[string]FieldType
	SetText(name, value string) error
	Check(name string) error
	Finalize() ([]byte, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(data []byte) (Form, error)

// Open implements Opener.
func (f OpenerFunc) Open(data []byte) (Form, error) {
	return f(data)
}

// ErrMissingField reports a target name absent from the loaded template.
var ErrMissingField = errors.New("pdfform: missing template field")

// MissingFieldError names the field that could not be resolved. Want is the
// type the caller needed; Got is empty when the name does not exist at all.
type MissingFieldError struct {
	Name string
	Want FieldType
	Got  FieldType
}

func (e *MissingFieldError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("pdfform: template has no %s field %q", e.Want, e.Name)
	}
	return fmt.Sprintf("pdfform: template field %q is %s, want %s", e.Name, e.Got, e.Want)
}

// Is makes errors.Is(err, ErrMissingField) match.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Lookup checks that name exists in fields with type want.
func Lookup(fields map[string]FieldType, name string, want FieldType) error {
	got, ok := fields[name]
	if !ok {
		return &MissingFieldError{Name: name, Want: want}
	}
	if got != want {
		return &MissingFieldError{Name: name, Want: want, Got: got}
	}
	return nil
}
