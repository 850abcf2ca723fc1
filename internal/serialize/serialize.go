// Package serialize converts resource structs and intrinsic values into the
// plain maps, slices and scalars that make up a CloudFormation template.
package serialize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Resource serializes a resource struct to CloudFormation properties.
//
// Field names come from the json tag or the Go field name. Unset fields are
// omitted: nil pointers, empty slices and maps, zero scalars and structs
// whose IsZero method reports true. A field typed as any is kept whenever
// it holds a value, so HostPort: 0 still renders as 0.
func Resource(v any) (map[string]any, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("serialize: expected struct, got %s", val.Kind())
	}

	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		if isZeroValue(fieldVal) {
			continue
		}

		serialized, err := serializeValue(fieldVal)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if serialized != nil {
			result[name] = serialized
		}
	}

	return result, nil
}

// Value normalizes an arbitrary value (an intrinsic, a struct, a map of
// either) into its template form.
func Value(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return serializeValue(reflect.ValueOf(v))
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return false
	}
}

func serializeValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		// Pointer receivers may implement json.Marshaler.
		if v.Kind() == reflect.Ptr {
			if out, ok, err := marshalJSON(v); ok {
				return out, err
			}
		}
		return serializeValue(v.Elem())
	}

	if out, ok, err := marshalJSON(v); ok {
		return out, err
	}

	switch v.Kind() {
	case reflect.Struct:
		return Resource(v.Interface())

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := serializeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		result := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			val, err := serializeValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			result[key] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		return nil, fmt.Errorf("unsupported value of kind %s", v.Kind())
	}
}

// marshalJSON round-trips values implementing json.Marshaler (intrinsics,
// parameters, resource handles) through encoding/json.
func marshalJSON(v reflect.Value) (any, bool, error) {
	if !v.CanInterface() {
		return nil, false, nil
	}
	marshaler, ok := v.Interface().(json.Marshaler)
	if !ok {
		return nil, false, nil
	}
	data, err := marshaler.MarshalJSON()
	if err != nil {
		return nil, true, err
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, true, err
	}
	return result, true, nil
}
