package intake

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Clean removes control characters from every text answer and turns tabs
// and newlines into spaces. Everything else, markup included, is kept as
// typed since the answers land in form fields.
func Clean(rec Record) Record {
	return mapText(rec, CleanText)
}

// Sanitize is Clean plus markup stripping, for deployments that also echo
// answers into HTML.
func Sanitize(rec Record) Record {
	return mapText(rec, SanitizeText)
}

func mapText(rec Record, fn func(string) string) Record {
	out := make(map[string]Value, rec.Len())
	for _, id := range rec.IDs() {
		v, _ := rec.Get(id)
		if v.Kind() == KindText {
			v = Text(fn(v.String()))
		}
		out[id] = v
	}
	return NewRecord(out)
}

// CleanText drops control characters from raw.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\t' || r == '\n' {
				return ' '
			}
			return -1
		}
		return r
	}, raw)
}

// SanitizeText returns raw with tags removed, entities decoded and control
// characters dropped.
func SanitizeText(raw string) string {
	if strings.ContainsAny(raw, "<&") {
		raw = html.UnescapeString(strictPolicy().Sanitize(raw))
	}
	return CleanText(raw)
}

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
