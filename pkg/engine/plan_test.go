package engine_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	"github.com/pccclearclinic/form-filling-template/pkg/testsupport"
)

func planFinal(t *testing.T, doc registry.DocumentID, rec intake.Record) map[string]string {
	t.Helper()

	ops, err := engine.Plan(testsupport.Registry(t), rec, doc, testsupport.FixedTime)
	if err != nil {
		t.Fatalf("plan %s: %v", doc, err)
	}
	return engine.Final(ops)
}

func TestResolveTargets(t *testing.T) {
	t.Parallel()

	reg := testsupport.Registry(t)
	field, ok := reg.Field("currentName")
	if !ok {
		t.Fatalf("currentName missing")
	}
	want := []string{"Name", "Plaintiff Petitioner"}
	if diff := cmp.Diff(want, engine.ResolveTargets(field, registry.FeeWaiver)); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}

	newName, _ := reg.Field("newName")
	if got := engine.ResolveTargets(newName, registry.FeeWaiver); got != nil {
		t.Fatalf("expected no targets, got %v", got)
	}
}

func TestPlanCheckboxFanOut(t *testing.T) {
	t.Parallel()

	checked := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(nil))
	for _, name := range []string{"Change of legal name", "Change of legal name_2"} {
		if checked[name] != "true" {
			t.Fatalf("%s not checked", name)
		}
	}

	unchecked := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(map[string]intake.Value{
		"changeOfName": intake.Flag(false),
	}))
	for _, name := range []string{"Change of legal name", "Change of legal name_2"} {
		if _, ok := unchecked[name]; ok {
			t.Fatalf("%s must not be touched when the answer is false", name)
		}
	}
}

func TestPlanSelectChecksChosenOption(t *testing.T) {
	t.Parallel()

	final := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(map[string]intake.Value{
		"gender": intake.Text("Male"),
	}))
	for _, name := range []string{"Male", "Male_2"} {
		if final[name] != "true" {
			t.Fatalf("%s not checked", name)
		}
	}
	for _, name := range []string{"Female", "Female_2", "Nonbinary", "Nonbinary_2"} {
		if _, ok := final[name]; ok {
			t.Fatalf("%s must not be checked", name)
		}
	}

	none := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(map[string]intake.Value{
		"gender": intake.Text(""),
	}))
	for _, name := range []string{"Male", "Female", "Nonbinary"} {
		if _, ok := none[name]; ok {
			t.Fatalf("%s checked for empty selection", name)
		}
	}
}

func TestPlanBenefitIndicators(t *testing.T) {
	t.Parallel()

	const snapBox = "Food Stamps SNAPSupplemental Nutrition Assistance Program"
	cases := map[string]bool{
		"":     false,
		"0":    false,
		"0.00": true,
		"25":   true,
	}
	for raw, want := range cases {
		final := planFinal(t, registry.FeeWaiver, testsupport.SampleRecord(map[string]intake.Value{
			"snap": intake.Text(raw),
		}))
		if got := final[snapBox] == "true"; got != want {
			t.Errorf("snap %q: indicator checked = %v, want %v", raw, got, want)
		}
	}
}

func TestPlanBenefitsTotal(t *testing.T) {
	t.Parallel()

	const target = "Total monthly benefits received"
	final := planFinal(t, registry.FeeWaiver, testsupport.SampleRecord(map[string]intake.Value{
		"snap": intake.Text("100"),
		"tanf": intake.Text(""),
		"ssi":  intake.Text("50"),
	}))
	if final[target] != "150.00" {
		t.Fatalf("%s = %q, want 150.00", target, final[target])
	}

	empty := planFinal(t, registry.FeeWaiver, testsupport.SampleRecord(map[string]intake.Value{
		"snap": intake.Text(""),
		"tanf": intake.Text(""),
		"ssi":  intake.Text(""),
	}))
	if empty[target] != "0.00" {
		t.Fatalf("%s = %q, want 0.00", target, empty[target])
	}
}

func TestPlanCompositeAddressLine(t *testing.T) {
	t.Parallel()

	final := planFinal(t, registry.FeeWaiver, testsupport.SampleRecord(nil))
	want := "123 Main St" + strings.Repeat(" ", 49) + "Portland, OR 97201" + strings.Repeat(" ", 42) + "503-555-0100"
	if diff := cmp.Diff(want, final["Name printed"]); diff != "" {
		t.Fatalf("composite mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanSuppressionOverridesFieldWrites(t *testing.T) {
	t.Parallel()

	final := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(map[string]intake.Value{
		"changeOfName": intake.Flag(false),
	}))
	want := map[string]string{
		"Petitioner current name 1": "Jordan Avery Smith",
		"Petitioner current name 2": "",
		"Petitioner current name 3": "Jordan Avery Smith",
		"Petitioner current name 4": "Jordan Avery Smith",
		"Petitioner current name 5": "",
	}
	got := make(map[string]string, len(want))
	for name := range want {
		got[name] = final[name]
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("name targets mismatch (-want +got):\n%s", diff)
	}

	kept := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(nil))
	if kept["Petitioner current name 2"] != "Jordan Avery Smith" {
		t.Fatalf("name 2 suppressed although changeOfName is true")
	}
}

func TestPlanOrderAndDate(t *testing.T) {
	t.Parallel()

	for _, doc := range registry.Documents() {
		ops, err := engine.Plan(testsupport.Registry(t), testsupport.SampleRecord(nil), doc, testsupport.FixedTime)
		if err != nil {
			t.Fatalf("plan %s: %v", doc, err)
		}
		for i := 1; i < len(ops); i++ {
			if ops[i].Stage < ops[i-1].Stage {
				t.Fatalf("%s: op %d (%s) precedes stage %s", doc, i, ops[i].Stage, ops[i-1].Stage)
			}
		}
		last := ops[len(ops)-1]
		want := engine.Op{Stage: engine.StageDate, Kind: engine.OpSetText, Target: "Date", Value: testsupport.FixedDate}
		if diff := cmp.Diff(want, last); diff != "" {
			t.Fatalf("%s: date op mismatch (-want +got):\n%s", doc, diff)
		}
	}
}

func TestPlanFeeWaiverOnlyComputesForItsLayout(t *testing.T) {
	t.Parallel()

	final := planFinal(t, registry.StatewidePacket, testsupport.SampleRecord(nil))
	for _, name := range []string{"Name printed", "Total monthly benefits received", "Filing Fee"} {
		if _, ok := final[name]; ok {
			t.Fatalf("statewide packet must not write %q", name)
		}
	}
}

func TestPlanUnknownDocument(t *testing.T) {
	t.Parallel()

	if _, err := engine.Plan(testsupport.Registry(t), intake.NewRecord(nil), "other", testsupport.FixedTime); err == nil {
		t.Fatalf("expected error for unknown document")
	}
}
