package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pccclearclinic/form-filling-template/internal/template/loader"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform/pdfcpuform"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// Generation outcomes reported to the Observer.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidIntake = "invalid_intake"
	OutcomeTemplateFetch = "template_fetch"
	OutcomeMissingField  = "missing_field"
	OutcomeError         = "error"
)

// Request asks for one filled document.
type Request struct {
	Document registry.DocumentID
	Record   intake.Record
}

// Result is a filled document.
type Result struct {
	Document        registry.DocumentID
	Filename        string
	Data            []byte
	CountDeliveries bool
}

// Artifact converts the result for a delivery sink.
func (r Result) Artifact() delivery.Artifact {
	return delivery.Artifact{
		Document:    r.Document.String(),
		Filename:    r.Filename,
		ContentType: delivery.ContentTypePDF,
		Data:        r.Data,
	}
}

// Assembler turns intake records into filled documents. It is safe for
// concurrent use; every Generate works on its own template instance.
type Assembler struct {
	registry  *registry.Registry
	loader    pkgtemplate.Loader
	opener    pdfform.Opener
	now       func() time.Time
	logger    *zap.Logger
	observer  Observer
	validate  intake.ValidateOptions
	sanitize  bool
	overrides map[registry.DocumentID]string
}

// New builds an Assembler over reg.
func New(reg *registry.Registry, options ...Option) (*Assembler, error) {
	if reg == nil {
		return nil, errors.New("engine: registry is required")
	}
	a := &Assembler{
		registry: reg,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if a.loader == nil {
		a.loader = loader.New(pkgtemplate.NewLoaderOptions())
	}
	if a.opener == nil {
		a.opener = pdfcpuform.New()
	}
	for doc := range a.overrides {
		if !doc.Valid() {
			return nil, fmt.Errorf("engine: template override for unknown document %q", doc)
		}
	}
	return a, nil
}

// Registry exposes the registry the assembler was built with.
func (a *Assembler) Registry() *registry.Registry {
	return a.registry
}

// Prepare cleans, normalizes and validates rec the way Generate does.
// Required ids are only enforced for docs; none means every document.
func (a *Assembler) Prepare(rec intake.Record, docs ...registry.DocumentID) (intake.Record, error) {
	if a.sanitize {
		rec = intake.Sanitize(rec)
	} else {
		rec = intake.Clean(rec)
	}
	rec = intake.Normalize(a.registry, rec)

	opts := a.validate
	opts.Documents = docs
	if err := intake.Validate(a.registry, rec, opts); err != nil {
		return intake.Record{}, err
	}
	return rec, nil
}

// Generate fills one document. Every planned target is checked against the
// template before the first write, so errors never leave a partial document.
func (a *Assembler) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	result, err := a.generate(ctx, req)
	a.observe(req.Document, err, time.Since(start))
	if err != nil {
		a.logger.Warn("document generation failed",
			zap.String("document", req.Document.String()),
			zap.Error(err),
		)
		return Result{}, err
	}
	a.logger.Info("document generated",
		zap.String("document", req.Document.String()),
		zap.String("filename", result.Filename),
		zap.Int("bytes", len(result.Data)),
	)
	return result, nil
}

func (a *Assembler) generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	layout, ok := a.registry.Layout(req.Document)
	if !ok {
		return Result{}, fmt.Errorf("engine: unknown document %q", req.Document)
	}

	rec, err := a.Prepare(req.Record, req.Document)
	if err != nil {
		return Result{}, err
	}
	ops, err := Plan(a.registry, rec, req.Document, a.now())
	if err != nil {
		return Result{}, err
	}

	form, err := a.openTemplate(ctx, req.Document, layout)
	if err != nil {
		return Result{}, err
	}
	if err := preflight(form.Fields(), ops); err != nil {
		return Result{}, fmt.Errorf("engine: %s: %w", req.Document, err)
	}
	if err := apply(form, ops); err != nil {
		return Result{}, fmt.Errorf("engine: %s: %w", req.Document, err)
	}

	data, err := form.Finalize()
	if err != nil {
		return Result{}, fmt.Errorf("engine: %s: finalize: %w", req.Document, err)
	}
	if len(data) == 0 {
		return Result{}, fmt.Errorf("engine: %s: finalize produced no bytes", req.Document)
	}
	return Result{
		Document:        req.Document,
		Filename:        layout.Filename,
		Data:            data,
		CountDeliveries: layout.CountDeliveries,
	}, nil
}

func (a *Assembler) templateLocation(doc registry.DocumentID, layout registry.Layout) string {
	if override, ok := a.overrides[doc]; ok && override != "" {
		return override
	}
	return layout.Template
}

func (a *Assembler) openTemplate(ctx context.Context, doc registry.DocumentID, layout registry.Layout) (pdfform.Form, error) {
	location := a.templateLocation(doc, layout)
	src, err := pkgtemplate.ParseSource(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgtemplate.ErrTemplateFetch, location, err)
	}
	data, err := a.loader.Load(ctx, src)
	if err != nil {
		if errors.Is(err, pkgtemplate.ErrTemplateFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", pkgtemplate.ErrTemplateFetch, location, err)
	}
	if !pdfform.Recognizes(a.opener, data) {
		return nil, fmt.Errorf("%w: %s: content is not a fillable template", pkgtemplate.ErrTemplateFetch, location)
	}
	form, err := a.opener.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgtemplate.ErrTemplateFetch, location, err)
	}
	a.logger.Debug("template loaded",
		zap.String("document", doc.String()),
		zap.String("template", location),
		zap.Int("bytes", len(data)),
	)
	return form, nil
}

// preflight reports every target the template cannot take.
func preflight(fields map[string]pdfform.FieldType, ops []Op) error {
	var errs []error
	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		key := op.Kind.String() + "\x00" + op.Target
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if err := pdfform.Lookup(fields, op.Target, op.Kind.FieldType()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func apply(form pdfform.Form, ops []Op) error {
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpCheck:
			err = form.Check(op.Target)
		case OpSetText:
			err = form.SetText(op.Target, op.Value)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("%s %q: %w", op.Kind, op.Target, err)
		}
	}
	return nil
}

func (a *Assembler) observe(doc registry.DocumentID, err error, elapsed time.Duration) {
	if a.observer == nil {
		return
	}
	a.observer.ObserveGeneration(doc, Outcome(err), elapsed)
}

// Outcome classifies a Generate error for metrics and HTTP status mapping.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, intake.ErrInvalidRecord):
		return OutcomeInvalidIntake
	case errors.Is(err, pkgtemplate.ErrTemplateFetch):
		return OutcomeTemplateFetch
	case errors.Is(err, pdfform.ErrMissingField):
		return OutcomeMissingField
	default:
		return OutcomeError
	}
}

// GenerateAll fills every document concurrently. The first failure cancels
// the rest and no results are returned.
func (a *Assembler) GenerateAll(ctx context.Context, rec intake.Record) ([]Result, error) {
	docs := registry.Documents()
	results := make([]Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			result, err := a.Generate(gctx, Request{Document: doc, Record: rec})
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Deliver hands result to dispatcher, counting it when the layout asks.
func (a *Assembler) Deliver(ctx context.Context, dispatcher *delivery.Dispatcher, result Result) error {
	return dispatcher.Deliver(ctx, result.Artifact(), result.CountDeliveries)
}
