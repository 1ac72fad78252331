package schema

import (
	"fmt"
	"sort"
	"strings"
)

// typeNames is the fixed catalog of entity types. A name being in this list
// and a schema being loaded for it are distinct facts: a type whose schema
// document is missing or malformed stays known but unconstrained.
var typeNames = []string{
	"character",
	"location",
	"family",
	"organisation",
	"item",
	"note",
	"event",
	"calendar",
	"race",
	"quest",
	"journal",
	"map",
	"timeline",
	"ability",
	"creature",
}

// FieldInfo is the flattened per-property view used for form generation.
type FieldInfo struct {
	Type        string
	Description string
	Required    bool
	Default     any
	Enum        []any
}

// Registry owns the entity-type catalog and its loaded schemas. It is
// constructed once at the composition root and passed to whatever needs
// validation; Reload replaces the whole table for test isolation.
type Registry struct {
	source  Source
	schemas map[string]*EntityTypeSchema
	issues  []string
	loaded  bool
}

func NewRegistry(source Source) *Registry {
	if source == nil {
		source = DefaultSource()
	}
	return &Registry{source: source}
}

// Load populates the schema table. It is idempotent: after a successful
// load it is a no-op. Per-type load failures are swallowed and recorded in
// LoadIssues; they never fail the registry.
func (r *Registry) Load() {
	if r.loaded {
		return
	}
	r.reload()
}

// Reload replaces the schema table, optionally switching to a new source.
func (r *Registry) Reload(source Source) {
	if source != nil {
		r.source = source
	}
	r.reload()
}

func (r *Registry) reload() {
	schemas := make(map[string]*EntityTypeSchema, len(typeNames))
	var issues []string

	for _, name := range typeNames {
		data, err := r.source.Read(name)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		parsed, err := parseSchemaDocument(name, data)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		schemas[name] = parsed
	}

	r.schemas = schemas
	r.issues = issues
	r.loaded = true
}

// LoadIssues reports the per-type schema documents that failed to load.
func (r *Registry) LoadIssues() []string {
	r.Load()
	return append([]string{}, r.issues...)
}

// TypeNames returns the fixed catalog in its canonical order.
func (r *Registry) TypeNames() []string {
	return append([]string{}, typeNames...)
}

// TypeExists reports whether name is in the catalog, case-insensitively.
func (r *Registry) TypeExists(name string) bool {
	key := strings.ToLower(name)
	for _, known := range typeNames {
		if known == key {
			return true
		}
	}
	return false
}

// Schema returns the loaded schema for name, or nil when the type has no
// loaded schema (whether or not the type itself is known).
func (r *Registry) Schema(name string) *EntityTypeSchema {
	r.Load()
	return r.schemas[strings.ToLower(name)]
}

// Defaults returns the declared default for every property that has one.
func (r *Registry) Defaults(name string) map[string]any {
	defaults := map[string]any{}
	s := r.Schema(name)
	if s == nil {
		return defaults
	}
	for prop, field := range s.Properties {
		if field.HasDefault {
			defaults[prop] = field.Default
		}
	}
	return defaults
}

// FieldInfos returns the per-property form view for name, keyed by property.
// A nullable union type is represented by its first non-null member.
func (r *Registry) FieldInfos(name string) map[string]FieldInfo {
	infos := map[string]FieldInfo{}
	s := r.Schema(name)
	if s == nil {
		return infos
	}
	for prop, field := range s.Properties {
		infos[prop] = FieldInfo{
			Type:        representativeType(field.Types),
			Description: field.Description,
			Required:    containsString(s.Required, prop),
			Default:     field.Default,
			Enum:        field.Enum,
		}
	}
	return infos
}

func representativeType(types []ValueType) string {
	for _, t := range types {
		if t != TypeNull {
			return string(t)
		}
	}
	return ""
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
