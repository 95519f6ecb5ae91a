package engine_test

import (
	"math"
	"strings"
	"testing"

	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
	}{
		{raw: "", want: 0},
		{raw: "12", want: 12},
		{raw: "  12.5", want: 12.5},
		{raw: "12abc", want: 12},
		{raw: "-3", want: -3},
		{raw: ".5", want: 0.5},
		{raw: "1e3", want: 1000},
		{raw: "0.00", want: 0},
		{raw: "Infinity", want: math.Inf(1)},
	}
	for _, tc := range cases {
		if got := engine.ParseAmount(tc.raw); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"abc", " ", "$5", "-"} {
		if got := engine.ParseAmount(raw); !math.IsNaN(got) {
			t.Errorf("ParseAmount(%q) = %v, want NaN", raw, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		150:    "150.00",
		0:      "0.00",
		1200.5: "1200.50",
		-4.1:   "-4.10",
	}
	for in, want := range cases {
		if got := engine.FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
	if got := engine.FormatAmount(math.NaN()); got != "NaN" {
		t.Errorf("FormatAmount(NaN) = %q", got)
	}
	if got := engine.FormatAmount(math.Copysign(0, -1)); got != "0.00" {
		t.Errorf("FormatAmount(-0) = %q", got)
	}
}

func TestSumTreatsAbsentAsZero(t *testing.T) {
	t.Parallel()

	rec := intake.NewRecord(map[string]intake.Value{
		"snap": intake.Text("100"),
		"ssi":  intake.Text("50"),
	})
	if got := engine.Sum(rec, []string{"snap", "tanf", "ssi"}); got != 150 {
		t.Fatalf("Sum = %v, want 150", got)
	}
	if got := engine.FormatAmount(engine.Sum(intake.NewRecord(nil), []string{"snap", "tanf", "ssi"})); got != "0.00" {
		t.Fatalf("empty sum = %q, want 0.00", got)
	}

	nan := rec.With("tanf", intake.Text("lots"))
	if got := engine.FormatAmount(engine.Sum(nan, []string{"snap", "tanf", "ssi"})); got != "NaN" {
		t.Fatalf("malformed sum = %q, want NaN", got)
	}
}

func TestBenefitReceived(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"":     false,
		"0":    false,
		" 0 ":  false,
		"0.00": true,
		"5":    true,
		"none": true,
	}
	for raw, want := range cases {
		if got := engine.BenefitReceived(raw); got != want {
			t.Errorf("BenefitReceived(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		width int
		want  string
	}{
		{in: "abc", width: 5, want: "abc  "},
		{in: "abcdef", width: 3, want: "abcdef "},
		{in: "abc", width: 3, want: "abc "},
		{in: "", width: 3, want: "   "},
		{in: "é", width: 3, want: "é  "},
		{in: "\U0001F3E0 1", width: 5, want: "\U0001F3E0 1 "},
		{in: "\U0001F3E0\U0001F3E0", width: 4, want: "\U0001F3E0\U0001F3E0 "},
		{in: "tail", width: 0, want: "tail"},
	}
	for _, tc := range cases {
		if got := engine.PadRight(tc.in, tc.width); got != tc.want {
			t.Errorf("PadRight(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestCompositeLineColumns(t *testing.T) {
	t.Parallel()

	composite := registry.Composite{
		Target: "Name printed",
		Segments: []registry.Segment{
			{Source: "streetAddress", Width: 60},
			{Source: "cityStateZip", Width: 60},
			{Source: "phone"},
		},
	}
	rec := intake.NewRecord(map[string]intake.Value{
		"streetAddress": intake.Text("123 Main St"),
		"cityStateZip":  intake.Text("Portland, OR 97201"),
		"phone":         intake.Text("503-555-0100"),
	})

	line := engine.CompositeLine(rec, composite)
	if got := strings.Index(line, "Portland"); got != 60 {
		t.Fatalf("city offset = %d, want 60 in %q", got, line)
	}
	if got := strings.Index(line, "503-555-0100"); got != 120 {
		t.Fatalf("phone offset = %d, want 120", got)
	}
	if !strings.HasSuffix(line, "503-555-0100") {
		t.Fatalf("last segment must not be padded: %q", line)
	}

	long := rec.With("streetAddress", intake.Text(strings.Repeat("x", 70)))
	line = engine.CompositeLine(long, composite)
	if got := strings.Index(line, "Portland"); got != 71 {
		t.Fatalf("overlong street: city offset = %d, want 71", got)
	}
}
