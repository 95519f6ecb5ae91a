package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Registry is the validated, immutable catalogue of field definitions and
// document layouts. Construct it once and pass it to the engine; nothing in
// this module keeps a package-level instance.
type Registry struct {
	fields  []FieldDefinition
	index   map[string]int
	layouts map[DocumentID]Layout
}

// New validates the supplied definitions and layouts and returns a Registry.
// Every supported document must have a layout.
func New(fields []FieldDefinition, layouts map[DocumentID]Layout) (*Registry, error) {
	r := &Registry{
		fields:  make([]FieldDefinition, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
		layouts: make(map[DocumentID]Layout, len(layouts)),
	}

	var errs []error
	for i, raw := range fields {
		field := raw.clone()
		field.ID = strings.TrimSpace(field.ID)
		if err := validateField(field); err != nil {
			errs = append(errs, fmt.Errorf("registry: field #%d: %w", i, err))
			continue
		}
		if _, exists := r.index[field.ID]; exists {
			errs = append(errs, fmt.Errorf("registry: duplicate field id %q", field.ID))
			continue
		}
		r.index[field.ID] = len(r.fields)
		r.fields = append(r.fields, field)
	}

	for doc, raw := range layouts {
		if !doc.Valid() {
			errs = append(errs, fmt.Errorf("registry: layout for unknown document %q", doc))
			continue
		}
		layout := raw.clone()
		layout.Document = doc
		if layout.DateField == "" {
			layout.DateField = DefaultDateField
		}
		if err := r.validateLayout(layout); err != nil {
			errs = append(errs, fmt.Errorf("registry: layout %s: %w", doc, err))
			continue
		}
		r.layouts[doc] = layout
	}
	for _, doc := range Documents() {
		if _, ok := layouts[doc]; !ok {
			errs = append(errs, fmt.Errorf("registry: missing layout for %s", doc))
		}
	}

	if len(errs) == 0 {
		for _, doc := range Documents() {
			if _, err := r.Expected(doc); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew panics when validation fails. Intended for embedded defaults and
// tests.
func MustNew(fields []FieldDefinition, layouts map[DocumentID]Layout) *Registry {
	r, err := New(fields, layouts)
	if err != nil {
		panic(err)
	}
	return r
}

func validateField(field FieldDefinition) error {
	if field.ID == "" {
		return errors.New("id is required")
	}
	if !field.Kind.valid() {
		return fmt.Errorf("field %q has unknown kind %q", field.ID, field.Kind)
	}
	for doc, targets := range field.Targets {
		if !doc.Valid() {
			return fmt.Errorf("field %q targets unknown document %q", field.ID, doc)
		}
		for _, target := range targets {
			if strings.TrimSpace(target) == "" {
				return fmt.Errorf("field %q has an empty %s target", field.ID, doc)
			}
			hasPlaceholder := strings.Contains(target, ValuePlaceholder)
			if field.Kind == KindSelect && !hasPlaceholder {
				return fmt.Errorf("select field %q target %q must contain %s", field.ID, target, ValuePlaceholder)
			}
			if field.Kind != KindSelect && hasPlaceholder {
				return fmt.Errorf("field %q target %q uses %s outside a select", field.ID, target, ValuePlaceholder)
			}
		}
	}
	if field.Kind == KindSelect && len(field.Options) == 0 {
		return fmt.Errorf("select field %q has no options", field.ID)
	}
	return nil
}

func (r *Registry) validateLayout(layout Layout) error {
	if strings.TrimSpace(layout.Filename) == "" {
		return errors.New("filename is required")
	}
	for _, total := range layout.Totals {
		if total.Target == "" {
			return errors.New("total target is required")
		}
		if len(total.Sources) == 0 {
			return fmt.Errorf("total %q has no sources", total.Target)
		}
		for _, src := range total.Sources {
			if err := r.requireField(src); err != nil {
				return fmt.Errorf("total %q: %w", total.Target, err)
			}
		}
	}
	for _, ind := range layout.Indicators {
		if ind.Target == "" {
			return errors.New("indicator target is required")
		}
		if err := r.requireField(ind.Source); err != nil {
			return fmt.Errorf("indicator %q: %w", ind.Target, err)
		}
	}
	if c := layout.Composite; c != nil {
		if c.Target == "" {
			return errors.New("composite target is required")
		}
		if len(c.Segments) == 0 {
			return fmt.Errorf("composite %q has no segments", c.Target)
		}
		for _, seg := range c.Segments {
			if seg.Width < 0 {
				return fmt.Errorf("composite %q segment %q has negative width", c.Target, seg.Source)
			}
			if err := r.requireField(seg.Source); err != nil {
				return fmt.Errorf("composite %q: %w", c.Target, err)
			}
		}
	}
	for _, s := range layout.Suppressions {
		if len(s.Targets) == 0 {
			return fmt.Errorf("suppression on %q has no targets", s.When)
		}
		if err := r.requireField(s.When); err != nil {
			return fmt.Errorf("suppression: %w", err)
		}
	}
	return nil
}

func (r *Registry) requireField(id string) error {
	if _, ok := r.index[id]; !ok {
		return fmt.Errorf("unknown field %q", id)
	}
	return nil
}

// Fields returns the definitions in registry order.
func (r *Registry) Fields() []FieldDefinition {
	out := make([]FieldDefinition, len(r.fields))
	for i, field := range r.fields {
		out[i] = field.clone()
	}
	return out
}

// Field looks up a definition by id.
func (r *Registry) Field(id string) (FieldDefinition, bool) {
	idx, ok := r.index[id]
	if !ok {
		return FieldDefinition{}, false
	}
	return r.fields[idx].clone(), true
}

// FieldsFor returns the definitions that resolve at least one target on doc.
func (r *Registry) FieldsFor(doc DocumentID) []FieldDefinition {
	var out []FieldDefinition
	for _, field := range r.fields {
		if len(field.Targets[doc]) > 0 {
			out = append(out, field.clone())
		}
	}
	return out
}

// UsedBy returns the ids that docs read: fields with a target on one of them
// and fields their layouts refer to. No docs means every document.
func (r *Registry) UsedBy(docs ...DocumentID) map[string]bool {
	if len(docs) == 0 {
		docs = Documents()
	}
	out := make(map[string]bool)
	for _, doc := range docs {
		for _, field := range r.fields {
			if len(field.Targets[doc]) > 0 {
				out[field.ID] = true
			}
		}
		layout, ok := r.layouts[doc]
		if !ok {
			continue
		}
		for _, ind := range layout.Indicators {
			out[ind.Source] = true
		}
		for _, total := range layout.Totals {
			for _, id := range total.Sources {
				out[id] = true
			}
		}
		if layout.Composite != nil {
			for _, segment := range layout.Composite.Segments {
				out[segment.Source] = true
			}
		}
		for _, s := range layout.Suppressions {
			out[s.When] = true
		}
	}
	return out
}

// Layout returns the rules configured for doc.
func (r *Registry) Layout(doc DocumentID) (Layout, bool) {
	layout, ok := r.layouts[doc]
	if !ok {
		return Layout{}, false
	}
	return layout.clone(), true
}

// Expected returns every template field name the document may write, keyed
// to the field type it has to be. Select targets expand over all options. A
// name claimed as both text and checkbox is a configuration error.
func (r *Registry) Expected(doc DocumentID) (map[string]TargetKind, error) {
	layout, ok := r.layouts[doc]
	if !ok {
		return nil, fmt.Errorf("registry: missing layout for %s", doc)
	}

	out := make(map[string]TargetKind)
	var conflicts []string
	claim := func(name string, kind TargetKind) {
		if prior, exists := out[name]; exists && prior != kind {
			conflicts = append(conflicts, name)
			return
		}
		out[name] = kind
	}

	for _, field := range r.fields {
		for _, target := range field.Targets[doc] {
			if field.Kind == KindSelect {
				for _, option := range field.Options {
					claim(ExpandTarget(target, option), TargetCheckbox)
				}
				continue
			}
			claim(target, field.TargetKind())
		}
	}
	for _, name := range layout.AlwaysChecked {
		claim(name, TargetCheckbox)
	}
	for _, ind := range layout.Indicators {
		claim(ind.Target, TargetCheckbox)
	}
	for _, total := range layout.Totals {
		claim(total.Target, TargetText)
	}
	if layout.Composite != nil {
		claim(layout.Composite.Target, TargetText)
	}
	for _, s := range layout.Suppressions {
		for _, name := range s.Targets {
			claim(name, TargetText)
		}
	}
	claim(layout.DateField, TargetText)

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, fmt.Errorf("registry: %s targets used as both text and checkbox: %s", doc, strings.Join(conflicts, ", "))
	}
	return out, nil
}

// ExpandTarget substitutes value into a select target pattern.
func ExpandTarget(pattern, value string) string {
	return strings.ReplaceAll(pattern, ValuePlaceholder, value)
}
