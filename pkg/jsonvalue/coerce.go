package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// maxDepth bounds nesting of maps, slices and pointers.
const maxDepth = 512

// FromAny converts a loosely typed Go value into a Value. The first matching
// rule wins:
//
//   - Value, Object, []Value and json.RawMessage pass through as JSON
//   - strings (including named string types)
//   - numbers: every int, uint and float kind plus json.Number
//   - booleans
//   - maps of any key type; keys use their fmt.Sprint form and are sorted
//   - slices and arrays, element by element
//
// Pointers and interfaces are followed. Everything else, including nil,
// structs, channels, funcs, NaN and infinities, becomes null. A map, slice
// or pointer that contains itself becomes null where it repeats, as does
// anything nested deeper than 512 levels. FromAny never fails.
//
// When two map keys print the same, the keys are ordered by type name and
// the last one wins: map[any]int{1: 1, "1": 2} encodes as {"1":2}.
func FromAny(v any) Value {
	return newCoercer().value(v)
}

// ObjectFromMap converts a variables map into an Object with sorted keys.
// A nil map yields an empty object.
func ObjectFromMap(m map[string]any) Object {
	c := newCoercer()
	if m == nil || !c.enter(reflect.ValueOf(m)) {
		return Object{}
	}
	defer c.leave(reflect.ValueOf(m))
	return c.object(m)
}

// coercer tracks the containers on the current path so cycles end in null.
type coercer struct {
	depth int
	seen  map[ptrKey]struct{}
}

type ptrKey struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

func newCoercer() *coercer {
	return &coercer{seen: make(map[ptrKey]struct{})}
}

func keyOf(rv reflect.Value) ptrKey {
	k := ptrKey{kind: rv.Kind(), ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	return k
}

// enter reports whether rv may be descended into, marking it as on the path.
func (c *coercer) enter(rv reflect.Value) bool {
	if c.depth >= maxDepth {
		return false
	}
	k := keyOf(rv)
	if _, ok := c.seen[k]; ok {
		return false
	}
	c.seen[k] = struct{}{}
	c.depth++
	return true
}

func (c *coercer) leave(rv reflect.Value) {
	delete(c.seen, keyOf(rv))
	c.depth--
}

func (c *coercer) object(m map[string]any) Object {
	obj := make(Object, 0, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		obj = append(obj, Member{Key: k, Value: c.value(m[k])})
	}
	return obj
}

func (c *coercer) value(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Object:
		return ObjectValue(t)
	case []Value:
		return Array(t...)
	case json.RawMessage:
		return Raw(t)
	case string:
		return String(t)
	case json.Number:
		return Number(t)
	case bool:
		return Bool(t)
	case map[string]any:
		if t == nil {
			return Null()
		}
		rv := reflect.ValueOf(t)
		if !c.enter(rv) {
			return Null()
		}
		defer c.leave(rv)
		return ObjectValue(c.object(t))
	}

	return c.reflect(reflect.ValueOf(v))
}

func (c *coercer) reflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() || !c.enter(rv) {
			return Null()
		}
		defer c.leave(rv)
		return c.value(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return c.value(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindNumber, s: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{kind: KindNumber, s: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float(), rv.Type().Bits())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Map:
		if rv.IsNil() || !c.enter(rv) {
			return Null()
		}
		defer c.leave(rv)
		return ObjectValue(c.mapToObject(rv))
	case reflect.Slice:
		if rv.IsNil() || !c.enter(rv) {
			return Null()
		}
		defer c.leave(rv)
		return c.sliceToArray(rv)
	case reflect.Array:
		// Arrays are values and cannot contain themselves; depth still applies.
		if c.depth >= maxDepth {
			return Null()
		}
		c.depth++
		defer func() { c.depth-- }()
		return c.sliceToArray(rv)
	default:
		return Null()
	}
}

func fromFloat(f float64, bits int) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, bits)}
}

func (c *coercer) mapToObject(rv reflect.Value) Object {
	type entry struct {
		key      string
		typeName string
		value    reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		entries = append(entries, entry{
			key:      fmt.Sprint(k),
			typeName: fmt.Sprintf("%T", k),
			value:    iter.Value(),
		})
	}
	// Keys that print alike are ordered by type; Set keeps the last.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].typeName < entries[j].typeName
	})

	obj := make(Object, 0, len(entries))
	for _, e := range entries {
		obj.Set(e.key, c.value(e.value.Interface()))
	}
	return obj
}

func (c *coercer) sliceToArray(rv reflect.Value) Value {
	items := make([]Value, rv.Len())
	for i := range items {
		items[i] = c.value(rv.Index(i).Interface())
	}
	return Array(items...)
}
