package importer

import (
	"encoding/json"
	"fmt"
)

// Format identifies the shape of an uploaded export document.
type Format string

const (
	FormatNative  Format = "native"
	FormatForeign Format = "foreign"
)

// Parse decodes an uploaded export, detects its format, and normalizes it
// into an ImportBundle. Partial bundles are never returned: any failure
// aborts the whole parse.
func Parse(raw []byte) (*ImportBundle, Format, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, "", fmt.Errorf("decoding import document: %w", err)
	}

	format := DetectFormat(doc)
	var bundle *ImportBundle
	var err error
	switch format {
	case FormatNative:
		bundle, err = parseNative(raw, doc)
	default:
		bundle, err = parseForeign(doc)
	}
	if err != nil {
		return nil, format, err
	}
	return bundle, format, nil
}

// DetectFormat recognizes the native shape by its explicit format marker,
// or by the first entity carrying an entity_type key. Anything else,
// including a document with no entities array at all, is foreign.
func DetectFormat(doc map[string]any) Format {
	if marker, ok := doc["format"].(string); ok && marker == string(FormatNative) {
		return FormatNative
	}
	entities, ok := doc["entities"].([]any)
	if !ok || len(entities) == 0 {
		return FormatForeign
	}
	first, ok := entities[0].(map[string]any)
	if !ok {
		return FormatForeign
	}
	if _, ok := first["entity_type"]; ok {
		return FormatNative
	}
	return FormatForeign
}

// parseNative is a structural pass-through: the document already has the
// bundle shape, so it only enforces the presence of the entities array and
// defaults the optional sections to empty collections.
func parseNative(raw []byte, doc map[string]any) (*ImportBundle, error) {
	if _, ok := doc["entities"].([]any); !ok {
		return nil, fmt.Errorf("native import is missing its entities array")
	}

	var bundle ImportBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decoding native import: %w", err)
	}

	if bundle.Entities == nil {
		bundle.Entities = []Entity{}
	}
	if bundle.Relations == nil {
		bundle.Relations = []Relation{}
	}
	if bundle.Tags == nil {
		bundle.Tags = []Tag{}
	}
	if bundle.EntityTags == nil {
		bundle.EntityTags = []EntityTag{}
	}
	if bundle.Attributes == nil {
		bundle.Attributes = []Attribute{}
	}
	if bundle.Posts == nil {
		bundle.Posts = []Post{}
	}

	return &bundle, nil
}
