package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValueType is a JSON-Schema-style runtime type name.
type ValueType string

const (
	TypeNull    ValueType = "null"
	TypeBoolean ValueType = "boolean"
	TypeInteger ValueType = "integer"
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
)

// EntityTypeSchema is the loaded field catalog for one entity type. Schemas
// are open: keys not declared here are always accepted.
type EntityTypeSchema struct {
	TypeName   string
	Properties map[string]*FieldSchema
	Required   []string
}

// FieldSchema describes one declared property. An empty Types list means the
// field carries no type constraint.
type FieldSchema struct {
	Types       []ValueType
	Enum        []any
	Items       *FieldSchema
	Properties  map[string]*FieldSchema
	Required    []string
	Default     any
	HasDefault  bool
	Description string
}

type schemaDoc struct {
	Properties map[string]*fieldDoc `json:"properties"`
	Required   []string             `json:"required"`
}

type fieldDoc struct {
	Type        any                  `json:"type"`
	Enum        []any                `json:"enum"`
	Items       *fieldDoc            `json:"items"`
	Properties  map[string]*fieldDoc `json:"properties"`
	Required    []string             `json:"required"`
	Default     json.RawMessage      `json:"default"`
	Description string               `json:"description"`
}

func parseSchemaDocument(typeName string, data []byte) (*EntityTypeSchema, error) {
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding schema for %s: %w", typeName, err)
	}

	out := &EntityTypeSchema{
		TypeName:   typeName,
		Properties: make(map[string]*FieldSchema, len(doc.Properties)),
		Required:   doc.Required,
	}
	for name, field := range doc.Properties {
		parsed, err := parseField(name, field)
		if err != nil {
			return nil, err
		}
		out.Properties[name] = parsed
	}

	for _, name := range out.Required {
		if _, ok := out.Properties[name]; !ok {
			return nil, fmt.Errorf("schema for %s requires undeclared property %q", typeName, name)
		}
	}

	return out, nil
}

func parseField(name string, doc *fieldDoc) (*FieldSchema, error) {
	if doc == nil {
		return &FieldSchema{}, nil
	}

	field := &FieldSchema{
		Enum:        doc.Enum,
		Required:    doc.Required,
		Description: doc.Description,
	}

	switch t := doc.Type.(type) {
	case nil:
	case string:
		field.Types = []ValueType{ValueType(t)}
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("property %s has a non-string type entry", name)
			}
			field.Types = append(field.Types, ValueType(s))
		}
	default:
		return nil, fmt.Errorf("property %s has an invalid type declaration", name)
	}
	for _, vt := range field.Types {
		if !knownValueType(vt) {
			return nil, fmt.Errorf("property %s declares unknown type %q", name, vt)
		}
	}

	if doc.Default != nil {
		var value any
		if err := json.Unmarshal(doc.Default, &value); err != nil {
			return nil, fmt.Errorf("property %s has an invalid default: %w", name, err)
		}
		field.Default = value
		field.HasDefault = true
	}

	if doc.Items != nil {
		items, err := parseField(name+".items", doc.Items)
		if err != nil {
			return nil, err
		}
		field.Items = items
	}

	if len(doc.Properties) > 0 {
		field.Properties = make(map[string]*FieldSchema, len(doc.Properties))
		for sub, subDoc := range doc.Properties {
			parsed, err := parseField(name+"."+sub, subDoc)
			if err != nil {
				return nil, err
			}
			field.Properties[sub] = parsed
		}
	}

	return field, nil
}

func knownValueType(t ValueType) bool {
	switch t {
	case TypeNull, TypeBoolean, TypeInteger, TypeNumber, TypeString, TypeArray, TypeObject:
		return true
	}
	return false
}

func (f *FieldSchema) allows(t ValueType) bool {
	for _, allowed := range f.Types {
		if allowed == t {
			return true
		}
		if allowed == TypeNumber && t == TypeInteger {
			return true
		}
	}
	return false
}

// runtimeType classifies a decoded JSON value. Whole floats count as
// integers so that an integer constraint accepts values decoded via
// encoding/json, which produces float64 for every number.
func runtimeType(value any) ValueType {
	switch v := value.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return TypeInteger
		}
		return TypeNumber
	case float32:
		if float64(v) == math.Trunc(float64(v)) {
			return TypeInteger
		}
		return TypeNumber
	case int, int32, int64, json.Number:
		return TypeInteger
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return TypeString
	}
}
