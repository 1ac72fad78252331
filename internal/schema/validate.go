package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Validate checks data against the schema loaded for typeName and returns an
// ordered list of human-readable failures; an empty list means valid. It
// never fails outright: an unknown type yields exactly one error, and a
// known type with no loaded schema accepts everything.
func (r *Registry) Validate(typeName string, data map[string]any) []string {
	if !r.TypeExists(typeName) {
		return []string{fmt.Sprintf("unknown entity type: %s", typeName)}
	}

	s := r.Schema(typeName)
	if s == nil {
		return nil
	}

	var errs []string
	for _, name := range s.Required {
		if value, ok := data[name]; !ok || value == nil {
			errs = append(errs, fmt.Sprintf("missing required field: %s", name))
		}
	}

	// Keys not declared in the schema are accepted: schemas are open.
	for _, key := range sortedKeys(data) {
		field, ok := s.Properties[key]
		if !ok {
			continue
		}
		errs = append(errs, validateField(key, data[key], field)...)
	}

	return errs
}

// validateField accumulates every failure for one field rather than
// stopping at the first, so a value can be both the wrong type and outside
// the enum.
func validateField(path string, value any, field *FieldSchema) []string {
	var errs []string

	if value == nil {
		if !field.allows(TypeNull) {
			errs = append(errs, fmt.Sprintf("%s cannot be null", path))
		}
		return errs
	}

	actual := runtimeType(value)
	if len(field.Types) > 0 && !field.allows(actual) {
		errs = append(errs, fmt.Sprintf("%s must be of type %s, got %s", path, expectedTypes(field.Types), actual))
	}

	if len(field.Enum) > 0 && !enumContains(field.Enum, value) {
		errs = append(errs, fmt.Sprintf("%s must be one of: %s", path, enumValues(field.Enum)))
	}

	if field.Items != nil {
		if items, ok := value.([]any); ok {
			for i, item := range items {
				errs = append(errs, validateField(fmt.Sprintf("%s[%d]", path, i), item, field.Items)...)
			}
		}
	}

	if len(field.Properties) > 0 {
		if obj, ok := value.(map[string]any); ok {
			for _, key := range sortedKeys(obj) {
				sub, ok := field.Properties[key]
				if !ok {
					continue
				}
				errs = append(errs, validateField(path+"."+key, obj[key], sub)...)
			}
			for _, name := range field.Required {
				if _, ok := obj[name]; !ok {
					errs = append(errs, fmt.Sprintf("%s missing required property: %s", path, name))
				}
			}
		}
	}

	return errs
}

func expectedTypes(types []ValueType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if t == TypeNull {
			continue
		}
		names = append(names, string(t))
	}
	return strings.Join(names, " or ")
}

func enumContains(enum []any, value any) bool {
	for _, member := range enum {
		if reflect.DeepEqual(member, value) {
			return true
		}
	}
	return false
}

func enumValues(enum []any) string {
	names := make([]string, 0, len(enum))
	for _, member := range enum {
		names = append(names, fmt.Sprintf("%v", member))
	}
	return strings.Join(names, ", ")
}
