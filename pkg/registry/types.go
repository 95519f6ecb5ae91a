package registry

import (
	"fmt"
	"strings"
)

// DocumentID identifies one of the supported pre-printed layouts.
type DocumentID string

const (
	FeeWaiver       DocumentID = "feeWaiver"
	StatewidePacket DocumentID = "statewidePacket"
)

// Documents lists every supported layout in a stable order.
func Documents() []DocumentID {
	return []DocumentID{FeeWaiver, StatewidePacket}
}

// ParseDocumentID maps a raw identifier onto the closed DocumentID set.
func ParseDocumentID(raw string) (DocumentID, error) {
	switch DocumentID(strings.TrimSpace(raw)) {
	case FeeWaiver:
		return FeeWaiver, nil
	case StatewidePacket:
		return StatewidePacket, nil
	default:
		return "", fmt.Errorf("registry: unknown document %q", raw)
	}
}

// Valid reports whether d is one of the supported layouts.
func (d DocumentID) Valid() bool {
	_, err := ParseDocumentID(string(d))
	return err == nil
}

func (d DocumentID) String() string {
	return string(d)
}

// FieldKind describes how an intake answer is captured and written.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
	KindSelect   FieldKind = "select"
)

func (k FieldKind) valid() bool {
	switch k {
	case KindText, KindNumber, KindCheckbox, KindSelect:
		return true
	default:
		return false
	}
}

// IsCheckbox reports whether resolved targets are toggled rather than written.
func (k FieldKind) IsCheckbox() bool {
	return k == KindCheckbox
}

// ValuePlaceholder is substituted with the chosen option when a select field
// resolves its targets.
const ValuePlaceholder = "{value}"

// TargetKind is the template field type a resolved target must have.
type TargetKind string

const (
	TargetText     TargetKind = "text"
	TargetCheckbox TargetKind = "checkbox"
)

// FieldDefinition describes one logical answer and where it lands on each
// document. Values handed out by Registry are copies.
type FieldDefinition struct {
	ID       string                  `json:"id" yaml:"id"`
	Kind     FieldKind               `json:"kind" yaml:"kind"`
	Label    string                  `json:"label,omitempty" yaml:"label,omitempty"`
	Help     string                  `json:"help,omitempty" yaml:"help,omitempty"`
	Required bool                    `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string                `json:"options,omitempty" yaml:"options,omitempty"`
	Targets  map[DocumentID][]string `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// IsCheckbox mirrors Kind.IsCheckbox for call sites holding a definition.
func (f FieldDefinition) IsCheckbox() bool {
	return f.Kind.IsCheckbox()
}

// TargetsFor returns the ordered target names for doc, or nil when the field
// does not appear on that document.
func (f FieldDefinition) TargetsFor(doc DocumentID) []string {
	targets := f.Targets[doc]
	if len(targets) == 0 {
		return nil
	}
	return append([]string(nil), targets...)
}

// TargetKind reports the template field type this definition writes to.
func (f FieldDefinition) TargetKind() TargetKind {
	switch f.Kind {
	case KindCheckbox, KindSelect:
		return TargetCheckbox
	default:
		return TargetText
	}
}

func (f FieldDefinition) clone() FieldDefinition {
	out := f
	out.Options = append([]string(nil), f.Options...)
	if f.Targets != nil {
		out.Targets = make(map[DocumentID][]string, len(f.Targets))
		for doc, targets := range f.Targets {
			out.Targets[doc] = append([]string(nil), targets...)
		}
	}
	return out
}

// Total sums numeric answers into one text target.
type Total struct {
	Target  string   `json:"target" yaml:"target"`
	Sources []string `json:"sources" yaml:"sources"`
}

// Indicator checks Target when the raw Source answer is neither empty nor "0".
type Indicator struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Segment is one fixed-width column of a composite line. Width 0 disables
// padding.
type Segment struct {
	Source string `json:"source" yaml:"source"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
}

// Composite joins several answers into one padded text target.
type Composite struct {
	Target   string    `json:"target" yaml:"target"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// Suppression blanks Targets when the When answer is falsy. It runs after
// registry field writes.
type Suppression struct {
	When    string   `json:"when" yaml:"when"`
	Targets []string `json:"targets" yaml:"targets"`
}

// Layout carries the document-specific rules applied on top of the field
// registry.
type Layout struct {
	Document        DocumentID    `json:"-" yaml:"-"`
	Template        string        `json:"template" yaml:"template"`
	Filename        string        `json:"filename" yaml:"filename"`
	DateField       string        `json:"dateField,omitempty" yaml:"dateField,omitempty"`
	AlwaysChecked   []string      `json:"alwaysChecked,omitempty" yaml:"alwaysChecked,omitempty"`
	Indicators      []Indicator   `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	Totals          []Total       `json:"totals,omitempty" yaml:"totals,omitempty"`
	Composite       *Composite    `json:"composite,omitempty" yaml:"composite,omitempty"`
	Suppressions    []Suppression `json:"suppressions,omitempty" yaml:"suppressions,omitempty"`
	CountDeliveries bool          `json:"countDeliveries,omitempty" yaml:"countDeliveries,omitempty"`
}

// DefaultDateField is used when a layout omits dateField.
const DefaultDateField = "Date"

func (l Layout) clone() Layout {
	out := l
	out.AlwaysChecked = append([]string(nil), l.AlwaysChecked...)
	out.Indicators = append([]Indicator(nil), l.Indicators...)
	if l.Totals != nil {
		out.Totals = make([]Total, len(l.Totals))
		for i, total := range l.Totals {
			out.Totals[i] = Total{Target: total.Target, Sources: append([]string(nil), total.Sources...)}
		}
	}
	if l.Composite != nil {
		composite := Composite{Target: l.Composite.Target, Segments: append([]Segment(nil), l.Composite.Segments...)}
		out.Composite = &composite
	}
	if l.Suppressions != nil {
		out.Suppressions = make([]Suppression, len(l.Suppressions))
		for i, s := range l.Suppressions {
			out.Suppressions[i] = Suppression{When: s.When, Targets: append([]string(nil), s.Targets...)}
		}
	}
	return out
}
