package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// FixedTime is the clock reading used by fixture assemblers.
var FixedTime = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

// FixedDate is FixedTime in the date stamp layout.
const FixedDate = "03/05/2024"

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Clock returns a function that always reports FixedTime.
func Clock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// Registry loads the embedded default registry or fails the test.
func Registry(t testing.TB) *registry.Registry {
	t.Helper()

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("load default registry: %v", err)
	}
	return reg
}

// SampleAnswers is a complete, valid intake for the default registry.
func SampleAnswers() map[string]intake.Value {
	return map[string]intake.Value{
		"currentName":             intake.Text("Jordan Avery Smith"),
		"newName":                 intake.Text("Jordan Avery Rivers"),
		"changeOfName":            intake.Flag(true),
		"changeOfSex":             intake.Flag(true),
		"gender":                  intake.Text("Female"),
		"dateOfBirth":             intake.Text("01/15/1990"),
		"county":                  intake.Text("Multnomah"),
		"streetAddress":           intake.Text("123 Main St"),
		"cityStateZip":            intake.Text("Portland, OR 97201"),
		"phone":                   intake.Text("503-555-0100"),
		"email":                   intake.Text("jordan@example.org"),
		"householdSize":           intake.Text("2"),
		"snap":                    intake.Text("100"),
		"tanf":                    intake.Text("0"),
		"ssi":                     intake.Text("50"),
		"totalMonthlyIncomeJobs":  intake.Text("1200.50"),
		"totalMonthlyIncomeOther": intake.Text(""),
		"totalCash":               intake.Text("30"),
		"valueOtherAssets":        intake.Text("1000"),
		"homeExpenses":            intake.Text("800"),
		"transportationExpenses":  intake.Text("75.25"),
		"otherExpenses":           intake.Text("20"),
	}
}

// SampleRecord wraps SampleAnswers with overrides applied.
func SampleRecord(overrides map[string]intake.Value) intake.Record {
	answers := SampleAnswers()
	for id, v := range overrides {
		answers[id] = v
	}
	return intake.NewRecord(answers)
}

// MemoryAssembler builds an assembler over the default registry that fills
// in-memory catalogue templates and stamps FixedTime.
func MemoryAssembler(t testing.TB, options ...engine.Option) *engine.Assembler {
	t.Helper()

	reg := Registry(t)
	dry, err := engine.DryRun(reg)
	if err != nil {
		t.Fatalf("dry run options: %v", err)
	}
	opts := append(dry, engine.WithClock(Clock()))
	asm, err := engine.New(reg, append(opts, options...)...)
	if err != nil {
		t.Fatalf("new assembler: %v", err)
	}
	return asm
}

// MemoryTemplate returns a memory template holding exactly the fields doc
// needs.
func MemoryTemplate(t testing.TB, reg *registry.Registry, doc registry.DocumentID) []byte {
	t.Helper()

	fields, err := engine.Catalogue(reg, doc)
	if err != nil {
		t.Fatalf("catalogue %s: %v", doc, err)
	}
	return pdfform.MemoryTemplate(fields)
}

// MustValues decodes a finalized memory form.
func MustValues(t testing.TB, data []byte) pdfform.Values {
	t.Helper()

	values, err := pdfform.ReadValues(data)
	if err != nil {
		t.Fatalf("read values: %v", err)
	}
	return values
}
