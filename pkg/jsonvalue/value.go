// Package jsonvalue provides an in-memory JSON value with a closed set of
// shapes. Objects keep member order so that encoding is deterministic.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is exactly one of null, bool, number, string, array, object or an
// already encoded raw JSON document. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string content, number text or raw JSON text
	arr  []Value
	obj  Object
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps a JSON number literal. Invalid literals become null.
func Number(n json.Number) Value {
	if !validNumber(string(n)) {
		return Null()
	}
	return Value{kind: KindNumber, s: string(n)}
}

// Array wraps an ordered list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an object.
func ObjectValue(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, obj: o}
}

// Raw wraps an already encoded JSON document, emitted verbatim when the
// value is encoded. Invalid JSON becomes null.
func Raw(raw json.RawMessage) Value {
	if !json.Valid(raw) {
		return Null()
	}
	return Value{kind: KindRaw, s: string(raw)}
}

// Kind reports the shape held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsNumber() (json.Number, bool) { return json.Number(v.s), v.kind == KindNumber }

func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

func (v Value) AsObject() (Object, bool) { return v.obj, v.kind == KindObject }

func (v Value) AsRaw() (json.RawMessage, bool) { return json.RawMessage(v.s), v.kind == KindRaw }

// Interface converts v into the plain Go representation produced by
// encoding/json with UseNumber: nil, bool, json.Number, string, []any and
// map[string]any. Raw values are decoded first.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		return v.obj.Interface()
	case KindRaw:
		parsed, err := Parse([]byte(v.s))
		if err != nil {
			return nil
		}
		return parsed.Interface()
	default:
		return nil
	}
}

// MarshalJSON encodes v. Object members keep their order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object. Keys are unique when built through Set.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Null(), false
}

// Set stores value under key, replacing an existing member in place or
// appending a new one.
func (o *Object) Set(key string, value Value) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: value})
}

// Keys returns the member keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Interface converts o into a map[string]any.
func (o Object) Interface() map[string]any {
	out := make(map[string]any, len(o))
	for _, m := range o {
		out[m.Key] = m.Value.Interface()
	}
	return out
}

// MarshalJSON encodes o with members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeObject(&buf, o)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into o, keeping member order.
func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := ParseObject(data)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber, KindRaw:
		buf.WriteString(v.s)
	case KindString:
		writeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, item)
		}
		buf.WriteByte(']')
	case KindObject:
		writeObject(buf, v.obj)
	default:
		buf.WriteString("null")
	}
}

func writeObject(buf *bytes.Buffer, o Object) {
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, m.Key)
		buf.WriteByte(':')
		writeValue(buf, m.Value)
	}
	buf.WriteByte('}')
}

// writeString encodes s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}

func validNumber(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}
