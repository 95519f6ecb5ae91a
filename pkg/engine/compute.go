package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pccclearclinic/form-filling-template/pkg/intake"
)

// Longest numeric prefix accepted by lenient parsing.
var amountPrefix = regexp.MustCompile(`^[+-]?(Infinity|([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?)`)

// ParseAmount converts a raw numeric answer. Empty input is 0. Otherwise the
// longest leading decimal literal is parsed after skipping whitespace, so
// "12abc" is 12 and "abc" is NaN.
func ParseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	match := amountPrefix.FindString(trimmed)
	if match == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		// Out-of-range literals still carry the signed infinity.
		if math.IsInf(v, 0) {
			return v
		}
		return math.NaN()
	}
	return v
}

// Sum adds the parsed amounts of the given answers. Absent ids count as 0;
// any NaN makes the sum NaN.
func Sum(rec intake.Record, ids []string) float64 {
	var total float64
	for _, id := range ids {
		total += ParseAmount(rec.Text(id))
	}
	return total
}

// FormatAmount renders v with exactly two decimals. NaN renders as "NaN".
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// BenefitReceived reports whether a benefit amount counts as received: any
// raw answer other than "" or "0" after trimming, so "0.00" is received.
func BenefitReceived(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "0":
		return false
	}
	return true
}
