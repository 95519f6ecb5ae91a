package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// Observer receives one call per Generate with its outcome.
type Observer interface {
	ObserveGeneration(doc registry.DocumentID, outcome string, elapsed time.Duration)
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithTemplateLoader overrides how templates are fetched.
func WithTemplateLoader(loader pkgtemplate.Loader) Option {
	return func(a *Assembler) {
		if loader != nil {
			a.loader = loader
		}
	}
}

// WithOpener overrides the form collaborator. The default is pdfcpu.
func WithOpener(opener pdfform.Opener) Option {
	return func(a *Assembler) {
		if opener != nil {
			a.opener = opener
		}
	}
}

// WithClock fixes the clock used for the date stamp.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStrictNumbers rejects malformed numeric answers during validation
// instead of letting them total to NaN.
func WithStrictNumbers(strict bool) Option {
	return func(a *Assembler) {
		a.validate.StrictNumbers = strict
	}
}

// WithTemplateOverride points doc at a different template location (file
// path, fs: name, or URL).
func WithTemplateOverride(doc registry.DocumentID, location string) Option {
	return func(a *Assembler) {
		if a.overrides == nil {
			a.overrides = make(map[registry.DocumentID]string)
		}
		a.overrides[doc] = location
	}
}

// WithMetrics reports generation outcomes to observer.
func WithMetrics(observer Observer) Option {
	return func(a *Assembler) {
		a.observer = observer
	}
}

// WithSanitize strips markup from free-text answers before mapping. By
// default answers are written as typed, minus control characters.
func WithSanitize(enabled bool) Option {
	return func(a *Assembler) {
		a.sanitize = enabled
	}
}
