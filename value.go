package contract

import (
	"reflect"
	"strings"
)

type missingType struct{}

func (missingType) String() string { return "<missing>" }

// Missing is the sentinel standing for "key absent from the input". It is
// distinct from nil: nil is an explicit null value supplied by the caller,
// Missing means the caller supplied nothing at all. Fields receive Missing
// when their key is not present and may return it to be omitted from the
// output.
var Missing any = missingType{}

// IsMissing reports whether a value is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingType)
	return ok
}

// fieldValue fetches a named value from a record. Records may be map-shaped
// (map[string]any or any map with string keys) or struct-shaped; structs
// honor a `contract:"name"` tag first and fall back to a case-insensitive
// match on the exported field name. Absent keys yield Missing.
func fieldValue(record any, name string) any {
	if record == nil {
		return Missing
	}

	if m, ok := record.(map[string]any); ok {
		if v, found := m[name]; found {
			return v
		}
		return Missing
	}

	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Missing
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Missing
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return Missing
		}
		return v.Interface()
	case reflect.Struct:
		return structValue(rv, name)
	default:
		return Missing
	}
}

func structValue(rv reflect.Value, name string) any {
	rt := rv.Type()
	fallback := -1

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("contract")
		if tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName == name {
				return rv.Field(i).Interface()
			}
			continue
		}

		if sf.Name == name {
			return rv.Field(i).Interface()
		}
		if fallback < 0 && strings.EqualFold(sf.Name, name) {
			fallback = i
		}
	}

	if fallback >= 0 {
		return rv.Field(fallback).Interface()
	}
	return Missing
}

// asRecordMap normalizes a load input to map[string]any. Only map-shaped
// inputs qualify; the boolean reports whether normalization succeeded.
func asRecordMap(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence normalizes a value to []any. Strings and byte slices are not
// sequences here: treating a string as a list of code points is never what
// a schema means.
func asSequence(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// typeName names a value's dynamic type for "expected a map" style messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
