// Package pdfcpuform implements pdfform.Opener on top of pdfcpu's AcroForm
// support. Writes are buffered and applied in one FillForm pass on Finalize.
package pdfcpuform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
)

// Opener reads AcroForm templates with pdfcpu.
type Opener struct {
	conf *model.Configuration
}

// New returns an Opener using pdfcpu's default configuration.
func New() *Opener {
	return &Opener{conf: model.NewDefaultConfiguration()}
}

var (
	_ pdfform.Opener     = (*Opener)(nil)
	_ pdfform.Recognizer = (*Opener)(nil)
)

// Recognize implements pdfform.Recognizer.
func (o *Opener) Recognize(data []byte) bool {
	return pdfform.IsPDF(data)
}

// Open lists the template's form fields and returns an editable handle.
func (o *Opener) Open(data []byte) (pdfform.Form, error) {
	if !pdfform.IsPDF(data) {
		return nil, errors.New("pdfcpuform: template is not a PDF")
	}
	fields, err := api.FormFields(bytes.NewReader(data), o.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpuform: list form fields: %w", err)
	}

	f := &Form{
		conf:     o.conf,
		template: append([]byte(nil), data...),
		kinds:    make(map[string]form.FieldType, len(fields)),
		text:     make(map[string]string),
		checked:  make(map[string]bool),
	}
	for _, field := range fields {
		f.kinds[field.Name] = field.Typ
	}
	return f, nil
}

// Form buffers writes against one template instance.
type Form struct {
	conf      *model.Configuration
	template  []byte
	kinds     map[string]form.FieldType
	text      map[string]string
	checked   map[string]bool
	finalized bool
}

// Fields reports text-like fields (including date fields) as text and check
// boxes as checkboxes. Other widget types are not addressable.
func (f *Form) Fields() map[string]pdfform.FieldType {
	out := make(map[string]pdfform.FieldType, len(f.kinds))
	for name, typ := range f.kinds {
		switch typ {
		case form.FTText, form.FTDate:
			out[name] = pdfform.FieldText
		case form.FTCheckBox:
			out[name] = pdfform.FieldCheckBox
		}
	}
	return out
}

// SetText implements pdfform.Form.
func (f *Form) SetText(name, value string) error {
	if f.finalized {
		return errors.New("pdfcpuform: form already finalized")
	}
	if err := pdfform.Lookup(f.Fields(), name, pdfform.FieldText); err != nil {
		return err
	}
	f.text[name] = value
	return nil
}

// Check implements pdfform.Form.
func (f *Form) Check(name string) error {
	if f.finalized {
		return errors.New("pdfcpuform: form already finalized")
	}
	if err := pdfform.Lookup(f.Fields(), name, pdfform.FieldCheckBox); err != nil {
		return err
	}
	f.checked[name] = true
	return nil
}

type fillText struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fillCheckBox struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type fillForm struct {
	TextFields []fillText     `json:"textfield,omitempty"`
	DateFields []fillText     `json:"datefield,omitempty"`
	CheckBoxes []fillCheckBox `json:"checkbox,omitempty"`
}

type fillGroup struct {
	Forms []fillForm `json:"forms"`
}

// Finalize writes the buffered values through api.FillForm and returns the
// resulting PDF.
func (f *Form) Finalize() ([]byte, error) {
	if f.finalized {
		return nil, errors.New("pdfcpuform: form already finalized")
	}
	f.finalized = true

	var payload fillForm
	for _, name := range sortedKeys(f.text) {
		entry := fillText{Name: name, Value: f.text[name]}
		if f.kinds[name] == form.FTDate {
			payload.DateFields = append(payload.DateFields, entry)
			continue
		}
		payload.TextFields = append(payload.TextFields, entry)
	}
	for _, name := range sortedKeys(f.checked) {
		payload.CheckBoxes = append(payload.CheckBoxes, fillCheckBox{Name: name, Value: true})
	}

	data, err := json.Marshal(fillGroup{Forms: []fillForm{payload}})
	if err != nil {
		return nil, fmt.Errorf("pdfcpuform: encode form data: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(f.template), bytes.NewReader(data), &out, f.conf); err != nil {
		return nil, fmt.Errorf("pdfcpuform: fill form: %w", err)
	}
	return out.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
