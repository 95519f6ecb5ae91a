package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRecord marks intake payloads rejected at the entry boundary.
var ErrInvalidRecord = errors.New("intake: invalid record")

// Decode builds a Record from a JSON object. Strings and booleans map onto
// Text and Flag; numbers are kept as their literal text; nulls are skipped.
func Decode(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Record{}, fmt.Errorf("%w: decode: %w", ErrInvalidRecord, err)
	}
	if raw == nil {
		return Record{}, fmt.Errorf("%w: payload must be a JSON object", ErrInvalidRecord)
	}
	return FromMap(raw)
}

// FromMap converts loosely typed answers into a Record.
func FromMap(raw map[string]any) (Record, error) {
	values := make(map[string]Value, len(raw))
	var bad []string
	for id, v := range raw {
		switch typed := v.(type) {
		case nil:
		case string:
			values[id] = Text(typed)
		case bool:
			values[id] = Flag(typed)
		case json.Number:
			values[id] = Text(typed.String())
		case float64:
			values[id] = Text(fmt.Sprint(typed))
		case int:
			values[id] = Text(fmt.Sprint(typed))
		case Value:
			values[id] = typed
		default:
			bad = append(bad, id)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return Record{}, fmt.Errorf("%w: unsupported value types for %v", ErrInvalidRecord, bad)
	}
	return NewRecord(values), nil
}
