package intake

import (
	"sort"
	"strconv"
)

// Kind tags which variant a Value holds.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFlag:
		return "flag"
	default:
		return "unset"
	}
}

// Value is one intake answer: free or numeric text, an enumerated choice
// (also text), or a boolean flag for checkbox-backed ids.
type Value struct {
	kind Kind
	text string
	flag bool
}

// Text wraps a string answer.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Flag wraps a boolean answer.
func Flag(b bool) Value {
	return Value{kind: KindFlag, flag: b}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Truthy is true for non-empty text and for a set flag.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindText:
		return v.text != ""
	case KindFlag:
		return v.flag
	default:
		return false
	}
}

// String returns the text form of v. Flags render as "true" / "false".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindFlag:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

func (v Value) jsonValue() any {
	if v.kind == KindFlag {
		return v.flag
	}
	return v.text
}

// Record is an immutable set of answers keyed by field id.
type Record struct {
	values map[string]Value
}

// NewRecord copies values into a Record. Unset (zero) values are dropped.
func NewRecord(values map[string]Value) Record {
	out := make(map[string]Value, len(values))
	for id, v := range values {
		if v.kind == 0 {
			continue
		}
		out[id] = v
	}
	return Record{values: out}
}

// Get returns the answer for id.
func (r Record) Get(id string) (Value, bool) {
	v, ok := r.values[id]
	return v, ok
}

// Text returns the text form of id, or "" when absent.
func (r Record) Text(id string) string {
	return r.values[id].String()
}

// Truthy reports whether id holds a truthy answer. Absent ids are falsy.
func (r Record) Truthy(id string) bool {
	return r.values[id].Truthy()
}

// Len reports the number of answers.
func (r Record) Len() int {
	return len(r.values)
}

// IDs returns the answered ids in sorted order.
func (r Record) IDs() []string {
	ids := make([]string, 0, len(r.values))
	for id := range r.values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// With returns a copy of r with id set to v.
func (r Record) With(id string, v Value) Record {
	out := make(map[string]Value, len(r.values)+1)
	for k, existing := range r.values {
		out[k] = existing
	}
	out[id] = v
	return NewRecord(out)
}

// Map returns the answers as JSON-compatible values.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for id, v := range r.values {
		out[id] = v.jsonValue()
	}
	return out
}
