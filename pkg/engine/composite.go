package engine

import (
	"strings"
	"unicode/utf16"

	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// PadRight pads s with spaces up to width UTF-16 code units, the unit the
// printed-name columns were laid out in; characters outside the BMP count
// twice. At least one space is always added, so overlong values still stay
// separated. Width <= 0 returns s as is.
func PadRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	pad := width - codeUnits(s)
	if pad < 1 {
		pad = 1
	}
	return s + strings.Repeat(" ", pad)
}

func codeUnits(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// CompositeLine joins the composite's segments into one line, padding each
// segment to its column width.
func CompositeLine(rec intake.Record, composite registry.Composite) string {
	var b strings.Builder
	for _, segment := range composite.Segments {
		b.WriteString(PadRight(rec.Text(segment.Source), segment.Width))
	}
	return b.String()
}
