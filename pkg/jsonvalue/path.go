package jsonvalue

import (
	"strconv"
	"strings"
)

// Lookup extracts a value using a dotted path such as
// "data.products.pageInfo.endCursor". A numeric segment indexes into an
// array. The empty path is not found.
func Lookup(v Value, path string) (Value, bool) {
	if path == "" {
		return Null(), false
	}

	current := v
	for _, part := range strings.Split(path, ".") {
		switch current.Kind() {
		case KindObject:
			next, ok := current.obj.Get(part)
			if !ok {
				return Null(), false
			}
			current = next
		case KindArray:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(current.arr) {
				return Null(), false
			}
			current = current.arr[i]
		default:
			return Null(), false
		}
	}

	return current, true
}

// Lookup extracts a value from o using a dotted path.
func (o Object) Lookup(path string) (Value, bool) {
	return Lookup(ObjectValue(o), path)
}
