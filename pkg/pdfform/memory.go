package pdfform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

const memoryFormat = "pdfform/memory"

// memoryDocument is the JSON shape of both memory templates and the finalized
// output.
type memoryDocument struct {
	Format  string               `json:"format"`
	Fields  map[string]FieldType `json:"fields"`
	Text    map[string]string    `json:"text,omitempty"`
	Checked []string             `json:"checked,omitempty"`
}

// MemoryTemplate builds template bytes understood by the memory opener.
func MemoryTemplate(fields map[string]FieldType) []byte {
	data, err := json.Marshal(memoryDocument{Format: memoryFormat, Fields: fields})
	if err != nil {
		// map[string]string-like payloads always marshal.
		panic(err)
	}
	return data
}

// Values is the filled state decoded from a finalized memory form.
type Values struct {
	Text    map[string]string
	Checked map[string]bool
}

// ReadValues decodes bytes produced by a memory form's Finalize.
func ReadValues(data []byte) (Values, error) {
	doc, err := decodeMemory(data)
	if err != nil {
		return Values{}, err
	}
	out := Values{
		Text:    make(map[string]string, len(doc.Text)),
		Checked: make(map[string]bool, len(doc.Checked)),
	}
	for k, v := range doc.Text {
		out.Text[k] = v
	}
	for _, name := range doc.Checked {
		out.Checked[name] = true
	}
	return out, nil
}

type memoryOpener struct{}

// NewMemoryOpener returns an Opener for JSON field catalogues. It backs tests
// and dry runs where no PDF tooling is wanted.
func NewMemoryOpener() Opener {
	return memoryOpener{}
}

var _ Recognizer = memoryOpener{}

func (memoryOpener) Recognize(data []byte) bool {
	_, err := decodeMemory(data)
	return err == nil
}

func (memoryOpener) Open(data []byte) (Form, error) {
	doc, err := decodeMemory(data)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]FieldType, len(doc.Fields))
	for k, v := range doc.Fields {
		fields[k] = v
	}
	return &memoryForm{
		fields:  fields,
		text:    make(map[string]string),
		checked: make(map[string]bool),
	}, nil
}

func decodeMemory(data []byte) (memoryDocument, error) {
	var doc memoryDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return memoryDocument{}, fmt.Errorf("pdfform: decode memory template: %w", err)
	}
	if doc.Format != memoryFormat {
		return memoryDocument{}, errors.New("pdfform: not a memory template")
	}
	return doc, nil
}

type memoryForm struct {
	fields    map[string]FieldType
	text      map[string]string
	checked   map[string]bool
	finalized bool
}

func (f *memoryForm) Fields() map[string]FieldType {
	out := make(map[string]FieldType, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

func (f *memoryForm) SetText(name, value string) error {
	if f.finalized {
		return errors.New("pdfform: form already finalized")
	}
	if err := Lookup(f.fields, name, FieldText); err != nil {
		return err
	}
	f.text[name] = value
	return nil
}

func (f *memoryForm) Check(name string) error {
	if f.finalized {
		return errors.New("pdfform: form already finalized")
	}
	if err := Lookup(f.fields, name, FieldCheckBox); err != nil {
		return err
	}
	f.checked[name] = true
	return nil
}

func (f *memoryForm) Finalize() ([]byte, error) {
	if f.finalized {
		return nil, errors.New("pdfform: form already finalized")
	}
	f.finalized = true

	checked := make([]string, 0, len(f.checked))
	for name := range f.checked {
		checked = append(checked, name)
	}
	sort.Strings(checked)

	return json.Marshal(memoryDocument{
		Format:  memoryFormat,
		Fields:  f.fields,
		Text:    f.text,
		Checked: checked,
	})
}
