// Package snapshot builds the typed view of form input that is sent to the
// prediction endpoint. Coercion rules are fixed per field name; fields the
// rules do not know about travel as raw strings.
package snapshot

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
)

// Field is one submitted name/value pair, in the order the form produced it.
type Field struct {
	Name  string
	Value string
}

// Coercion describes how a raw field value is converted.
type Coercion int

const (
	// CoerceRaw passes the value through unchanged.
	CoerceRaw Coercion = iota
	// CoerceFloat parses a floating-point number.
	CoerceFloat
	// CoerceInt parses an integer.
	CoerceInt
	// CoerceFlag passes through a "1"/"0" choice unchanged.
	CoerceFlag
)

func (c Coercion) String() string {
	switch c {
	case CoerceFloat:
		return "float"
	case CoerceInt:
		return "int"
	case CoerceFlag:
		return "flag"
	default:
		return "raw"
	}
}

var rules = map[string]Coercion{
	"area":            CoerceFloat,
	"bathrooms":       CoerceFloat,
	"bedrooms":        CoerceInt,
	"stories":         CoerceInt,
	"parking":         CoerceInt,
	"mainroad":        CoerceFlag,
	"guestroom":       CoerceFlag,
	"basement":        CoerceFlag,
	"hotwaterheating": CoerceFlag,
	"airconditioning": CoerceFlag,
	"prefarea":        CoerceFlag,
}

// CoercionFor reports the coercion applied to the named field.
func CoercionFor(name string) Coercion {
	return rules[name]
}

// CoercedFields lists, sorted, the field names that have a coercion rule.
func CoercedFields() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is a coerced field. Value holds float64, int64, string, or nil when a
// numeric field had no parsable number. Integer fields too large for int64
// hold a float64.
type Entry struct {
	Name  string
	Value any
}

// Snapshot is the ordered, coerced form payload for a single submission.
type Snapshot struct {
	entries []Entry
	index   map[string]int
}

// Build coerces fields into a Snapshot. Unknown or missing fields are not an
// error: whatever the form produced is forwarded. A repeated name keeps the
// position of its first occurrence and the value of its last.
func Build(fields []Field) Snapshot {
	snap := Snapshot{index: make(map[string]int, len(fields))}
	for _, field := range fields {
		value := Coerce(field.Name, field.Value)
		if pos, ok := snap.index[field.Name]; ok {
			snap.entries[pos].Value = value
			continue
		}
		snap.index[field.Name] = len(snap.entries)
		snap.entries = append(snap.entries, Entry{Name: field.Name, Value: value})
	}
	return snap
}

// FromValues builds a Snapshot from url.Values. Names are sorted since maps
// carry no order; only the last value of each name is used.
func FromValues(values url.Values) Snapshot {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		vals := values[name]
		if len(vals) == 0 {
			continue
		}
		fields = append(fields, Field{Name: name, Value: vals[len(vals)-1]})
	}
	return Build(fields)
}

// Coerce converts a single raw value according to the field's rule.
func Coerce(name, raw string) any {
	switch CoercionFor(name) {
	case CoerceFloat:
		if f, ok := ParseFloat(raw); ok {
			return f
		}
		return nil
	case CoerceInt:
		if v, ok := ParseInteger(raw); ok {
			return v
		}
		return nil
	default:
		return raw
	}
}

// Len returns the number of distinct fields.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the coerced entries in submission order.
func (s Snapshot) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Get returns the coerced value for name.
func (s Snapshot) Get(name string) (any, bool) {
	pos, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[pos].Value, true
}

// Map returns the entries as a map, losing order.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.entries))
	for _, entry := range s.entries {
		out[entry.Name] = entry.Value
	}
	return out
}

// MarshalJSON encodes the snapshot as a JSON object, keys in submission order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
