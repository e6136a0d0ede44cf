// Package mask flattens structs into maps with sensitive fields masked, for
// logging configuration and request payloads.
package mask

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const tagName = "mask"

// StructToMap returns the exported fields of v as a flat map. Nested structs
// are flattened into dotted keys. Fields tagged `mask:"true"` have non-zero
// values replaced by a placeholder naming their kind.
// Key names follow the json tag, then the yaml tag, then the field name; fields
// tagged "-" are omitted. A non-struct v, or one that marshals itself to
// JSON, is returned under the empty key.
func StructToMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	if _, ok := v.(json.Marshaler); ok {
		return map[string]any{"": v}
	}

	out := make(map[string]any)
	flatten(out, reflect.ValueOf(v), "")
	return out
}

func flatten(out map[string]any, val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			out[prefix] = nil
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		out[prefix] = val.Interface()
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		fieldName, skip := extractFieldName(fieldType)
		if skip {
			continue
		}

		name := fieldName
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case shouldMask(fieldType):
			out[name] = maskValue(field)
		case isExpandable(field):
			flatten(out, field, name)
		default:
			out[name] = plain(field)
		}
	}
}

// plain unwraps val, turning nil pointers into an untyped nil.
func plain(val reflect.Value) any {
	if val.Kind() == reflect.Pointer && val.IsNil() {
		return nil
	}
	return val.Interface()
}

func isExpandable(val reflect.Value) bool {
	kind := val.Kind()
	if kind == reflect.Pointer {
		if val.IsNil() {
			return false
		}
		kind = val.Elem().Kind()
	}
	return kind == reflect.Struct && !isOpaque(val)
}

// isOpaque reports types that render themselves, like time.Time or uuid.UUID.
func isOpaque(val reflect.Value) bool {
	if !val.CanInterface() {
		return false
	}
	switch val.Interface().(type) {
	case fmt.Stringer, json.Marshaler:
		return true
	}
	return false
}

func shouldMask(field reflect.StructField) bool {
	return strings.EqualFold(field.Tag.Get(tagName), "true")
}

func maskValue(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // default case handles remaining types
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
	}

	// zero values leak nothing
	if val.IsZero() {
		return val.Interface()
	}

	return maskByKind(val)
}

func maskByKind(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // default case handles remaining types
	case reflect.String:
		return "***masked-string***"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "***masked-int***"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "***masked-uint***"
	case reflect.Float32, reflect.Float64:
		return "***masked-float***"
	case reflect.Bool:
		return "***masked-bool***"
	case reflect.Struct:
		return "***masked-struct***"
	case reflect.Slice, reflect.Array:
		return "***masked-slice***"
	case reflect.Map:
		return "***masked-map***"
	default:
		return fmt.Sprintf("***masked-%s***", val.Kind())
	}
}

// extractFieldName returns the key for field and whether it is omitted.
func extractFieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"json", "yaml"} {
		v, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if v == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(v, ","); name != "" {
			return name, false
		}
	}
	return field.Name, false
}
