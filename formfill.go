package formfill

import (
	"context"

	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// Request aliases engine.Request for callers using the top-level package.
type Request = engine.Request

// Result aliases engine.Result.
type Result = engine.Result

// NewAssembler builds an assembler over the embedded default registry.
func NewAssembler(options ...engine.Option) (*engine.Assembler, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return engine.New(reg, options...)
}

// Fill decodes a JSON intake and produces one filled document using the
// default registry. It is the simplest entry point for callers that just
// want bytes.
func Fill(ctx context.Context, doc registry.DocumentID, intakeJSON []byte, options ...engine.Option) (Result, error) {
	asm, err := NewAssembler(options...)
	if err != nil {
		return Result{}, err
	}
	rec, err := intake.Decode(intakeJSON)
	if err != nil {
		return Result{}, err
	}
	return asm.Generate(ctx, Request{Document: doc, Record: rec})
}

// FillAll produces every document for one JSON intake.
func FillAll(ctx context.Context, intakeJSON []byte, options ...engine.Option) ([]Result, error) {
	asm, err := NewAssembler(options...)
	if err != nil {
		return nil, err
	}
	rec, err := intake.Decode(intakeJSON)
	if err != nil {
		return nil, err
	}
	return asm.GenerateAll(ctx, rec)
}
