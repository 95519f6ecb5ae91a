package pdfform_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
)

func TestMemoryFormRoundTrip(t *testing.T) {
	t.Parallel()

	opener := pdfform.NewMemoryOpener()
	tpl := pdfform.MemoryTemplate(map[string]pdfform.FieldType{
		"Name": pdfform.FieldText,
		"Male": pdfform.FieldCheckBox,
	})
	if !pdfform.Recognizes(opener, tpl) {
		t.Fatalf("memory opener should recognise its own templates")
	}

	form, err := opener.Open(tpl)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := form.SetText("Name", "first"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := form.SetText("Name", "Jo Doe"); err != nil {
		t.Fatalf("overwrite text: %v", err)
	}
	if err := form.Check("Male"); err != nil {
		t.Fatalf("check: %v", err)
	}

	out, err := form.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	values, err := pdfform.ReadValues(out)
	if err != nil {
		t.Fatalf("read values: %v", err)
	}

	want := pdfform.Values{
		Text:    map[string]string{"Name": "Jo Doe"},
		Checked: map[string]bool{"Male": true},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if _, err := form.Finalize(); err == nil {
		t.Fatalf("second finalize should fail")
	}
}

func TestMemoryFormMissingFields(t *testing.T) {
	t.Parallel()

	form, err := pdfform.NewMemoryOpener().Open(pdfform.MemoryTemplate(map[string]pdfform.FieldType{
		"Name": pdfform.FieldText,
	}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = form.Check("Name")
	var missing *pdfform.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("check on text field: got %v, want MissingFieldError", err)
	}
	if missing.Got != pdfform.FieldText || missing.Want != pdfform.FieldCheckBox {
		t.Fatalf("unexpected type mismatch detail: %+v", missing)
	}

	if err := form.SetText("name", "x"); !errors.Is(err, pdfform.ErrMissingField) {
		t.Fatalf("lookups are case-sensitive: got %v", err)
	}
}

func TestRecognizesFallsBackToPDFHeader(t *testing.T) {
	t.Parallel()

	opener := pdfform.OpenerFunc(func([]byte) (pdfform.Form, error) { return nil, nil })
	if !pdfform.Recognizes(opener, []byte("\n%PDF-1.7\n...")) {
		t.Fatalf("PDF header should be recognised")
	}
	if pdfform.Recognizes(opener, []byte("<html>")) {
		t.Fatalf("HTML should not be recognised as PDF")
	}
	if pdfform.Recognizes(pdfform.NewMemoryOpener(), []byte("%PDF-1.7")) {
		t.Fatalf("memory opener should reject PDF bytes")
	}
}
