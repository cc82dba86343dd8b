// Package typename derives short human-readable type names used for frame
// naming in diagnostics.
package typename

import (
	"reflect"
	"strings"
)

// Of returns a compact name for T: the bare type name for named types,
// with pointer markers and package paths stripped, or the reflect string
// for anonymous types.
func Of[T any]() string {
	return fromType(reflect.TypeOf((*T)(nil)).Elem())
}

func fromType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	s := t.String()
	// interface or composite literal types: keep the last path segment only
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
