package intake

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// strictNumberPattern accepts an optional plain decimal surrounded by
// whitespace; empty strings stay valid because absent amounts count as zero.
const strictNumberPattern = `^\s*(-?([0-9]+(\.[0-9]*)?|\.[0-9]+))?\s*$`

var strictNumber = regexp.MustCompile(strictNumberPattern)

// IsStrictNumber reports whether s is accepted by strict number validation.
func IsStrictNumber(s string) bool {
	return strictNumber.MatchString(s)
}

// Issue is one boundary validation failure.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every issue found in one record.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "intake: invalid record: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidRecord) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// ValidateOptions tunes boundary validation.
type ValidateOptions struct {
	// StrictNumbers rejects number answers that are not plain decimals.
	StrictNumbers bool
	// AllowUnknown tolerates ids the registry does not define.
	AllowUnknown bool
	// Documents limits required ids to the ones these documents read. Empty
	// means every document.
	Documents []registry.DocumentID
}

// SchemaFor describes the records accepted for reg as an OpenAPI schema.
func SchemaFor(reg *registry.Registry, opts ValidateOptions) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	used := reg.UsedBy(opts.Documents...)
	var required []string
	for _, field := range reg.Fields() {
		schema.WithProperty(field.ID, fieldSchema(field, opts))
		if field.Required && used[field.ID] {
			required = append(required, field.ID)
		}
	}
	schema.Required = required
	if !opts.AllowUnknown {
		no := false
		schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &no}
	}
	return schema
}

func fieldSchema(field registry.FieldDefinition, opts ValidateOptions) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.Kind {
	case registry.KindCheckbox:
		s = openapi3.NewBoolSchema()
	case registry.KindSelect:
		enum := make([]any, 0, len(field.Options)+1)
		enum = append(enum, "")
		for _, option := range field.Options {
			enum = append(enum, option)
		}
		s = openapi3.NewStringSchema().WithEnum(enum...)
	case registry.KindNumber:
		s = openapi3.NewStringSchema()
		if opts.StrictNumbers {
			s = s.WithPattern(strictNumberPattern)
		}
	default:
		s = openapi3.NewStringSchema()
	}
	if field.Label != "" {
		s.Title = field.Label
	}
	return s
}

// Normalize applies the answer equivalences the registry implies: an empty
// string on a checkbox id means unchecked, the same as false.
func Normalize(reg *registry.Registry, rec Record) Record {
	if reg == nil {
		return rec
	}
	out := rec
	for _, id := range rec.IDs() {
		field, ok := reg.Field(id)
		if !ok || !field.IsCheckbox() {
			continue
		}
		if v, _ := rec.Get(id); v.Kind() == KindText && strings.TrimSpace(v.String()) == "" {
			out = out.With(id, Flag(false))
		}
	}
	return out
}

// Validate checks rec against reg once, before any mapping work begins.
// Every issue is reported together in a *ValidationError.
func Validate(reg *registry.Registry, rec Record, opts ValidateOptions) error {
	if reg == nil {
		return errors.New("intake: registry is required")
	}

	rec = Normalize(reg, rec)
	schema := SchemaFor(reg, opts)
	err := schema.VisitJSON(rec.Map(), openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	issues := collectIssues(err)
	if len(issues) == 0 {
		issues = []Issue{{Message: err.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return &ValidationError{Issues: issues}
}

func collectIssues(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, inner := range multi {
			out = append(out, collectIssues(inner)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), "/")
		reason := schemaErr.Reason
		if reason == "" {
			reason = schemaErr.Error()
		}
		return []Issue{{Field: field, Message: reason}}
	}
	return []Issue{{Message: fmt.Sprint(err)}}
}
