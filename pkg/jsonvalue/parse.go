package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	// ErrNotObject is returned by ParseObject when the document is valid JSON
	// but its top-level value is not an object.
	ErrNotObject = errors.New("top-level JSON value is not an object")

	// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

// Parse decodes a single JSON document. Object member order is kept and
// numbers keep their literal text. Trailing data after the value is an error.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return Null(), ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Null(), err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Null(), fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return Null(), err
	}
	return v, nil
}

// ParseObject decodes a JSON document whose top-level value must be an
// object.
func ParseObject(data []byte) (Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Null(), io.ErrUnexpectedEOF
		}
		return Null(), err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Null(), fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, s: string(t)}, nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Null(), fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Object{}
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Null(), err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Null(), fmt.Errorf("expected object key, got %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Null(), err
		}
		// Later duplicates win, as with encoding/json.
		if i, dup := index[key]; dup {
			obj[i].Value = v
			continue
		}
		index[key] = len(obj)
		obj = append(obj, Member{Key: key, Value: v})
	}
	if err := closeToken(dec); err != nil {
		return Null(), err
	}
	return ObjectValue(obj), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Null(), err
		}
		items = append(items, v)
	}
	if err := closeToken(dec); err != nil {
		return Null(), err
	}
	return Array(items...), nil
}

func closeToken(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}
