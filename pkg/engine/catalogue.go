package engine

import (
	"context"
	"fmt"

	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// Catalogue lists every template field doc may write with the field type it
// must have.
func Catalogue(reg *registry.Registry, doc registry.DocumentID) (map[string]pdfform.FieldType, error) {
	expected, err := reg.Expected(doc)
	if err != nil {
		return nil, err
	}
	out := make(map[string]pdfform.FieldType, len(expected))
	for name, kind := range expected {
		if kind == registry.TargetCheckbox {
			out[name] = pdfform.FieldCheckBox
			continue
		}
		out[name] = pdfform.FieldText
	}
	return out, nil
}

const dryRunScheme = "memory:"

// DryRun returns options that replace every PDF template with an in-memory
// catalogue built from reg. Output is the memory form JSON, not a PDF.
func DryRun(reg *registry.Registry) ([]Option, error) {
	templates := make(map[string][]byte)
	options := []Option{WithOpener(pdfform.NewMemoryOpener())}
	for _, doc := range registry.Documents() {
		fields, err := Catalogue(reg, doc)
		if err != nil {
			return nil, err
		}
		location := dryRunScheme + doc.String()
		templates[location] = pdfform.MemoryTemplate(fields)
		options = append(options, WithTemplateOverride(doc, location))
	}
	loader := pkgtemplate.LoaderFunc(func(_ context.Context, src pkgtemplate.Source) ([]byte, error) {
		data, ok := templates[src.Location()]
		if !ok {
			return nil, fmt.Errorf("%w: %s: no dry-run template", pkgtemplate.ErrTemplateFetch, src.Location())
		}
		return data, nil
	})
	return append(options, WithTemplateLoader(loader)), nil
}
