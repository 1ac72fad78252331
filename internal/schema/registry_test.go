package schema

import (
	"fmt"
	"reflect"
	"testing"
)

// mapSource serves schema documents from memory; absent types error like a
// missing file would.
type mapSource map[string][]byte

func (m mapSource) Read(typeName string) ([]byte, error) {
	data, ok := m[typeName]
	if !ok {
		return nil, fmt.Errorf("no schema for %s", typeName)
	}
	return data, nil
}

func TestTypeNames(t *testing.T) {
	r := NewRegistry(mapSource{})

	names := r.TypeNames()
	if len(names) != 15 {
		t.Fatalf("expected 15 type names, got %d", len(names))
	}

	expected := []string{
		"character", "location", "family", "organisation", "item",
		"note", "event", "calendar", "race", "quest",
		"journal", "map", "timeline", "ability", "creature",
	}
	if !reflect.DeepEqual(names, expected) {
		t.Fatalf("unexpected catalog order: %v", names)
	}

	// The returned slice is a copy.
	names[0] = "mutated"
	if r.TypeNames()[0] != "character" {
		t.Fatalf("catalog was mutated through the returned slice")
	}
}

func TestTypeExists(t *testing.T) {
	r := NewRegistry(mapSource{})

	cases := []struct {
		name   string
		exists bool
	}{
		{"character", true},
		{"Character", true},
		{"CHARACTER", true},
		{"organisation", true},
		{"organization", false},
		{"dragon", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := r.TypeExists(tc.name); got != tc.exists {
			t.Fatalf("TypeExists(%q) = %v, want %v", tc.name, got, tc.exists)
		}
	}
}

func TestLoadIssues(t *testing.T) {
	t.Run("malformed documents are recorded, not fatal", func(t *testing.T) {
		r := NewRegistry(mapSource{
			"character": []byte(`{"properties": {"age": {"type": "integer"}}}`),
			"location":  []byte(`{not json`),
		})

		issues := r.LoadIssues()
		if len(issues) != 14 {
			t.Fatalf("expected 14 load issues, got %d: %v", len(issues), issues)
		}

		if r.Schema("character") == nil {
			t.Fatalf("expected character schema to load")
		}
		if r.Schema("location") != nil {
			t.Fatalf("expected location schema to be absent")
		}
		// A type whose schema failed to load stays in the catalog.
		if !r.TypeExists("location") {
			t.Fatalf("expected location to remain a known type")
		}
	})

	t.Run("required name missing from properties is rejected", func(t *testing.T) {
		r := NewRegistry(mapSource{
			"quest": []byte(`{"properties": {"status": {"type": "string"}}, "required": ["missing"]}`),
		})
		if r.Schema("quest") != nil {
			t.Fatalf("expected quest schema rejection")
		}
		if len(r.LoadIssues()) == 0 {
			t.Fatalf("expected a load issue")
		}
	})
}

func TestEmbeddedSchemas(t *testing.T) {
	r := NewRegistry(nil)

	if issues := r.LoadIssues(); len(issues) != 0 {
		t.Fatalf("built-in schemas failed to load: %v", issues)
	}
	for _, name := range r.TypeNames() {
		if r.Schema(name) == nil {
			t.Fatalf("no built-in schema for %s", name)
		}
	}
}

func TestReload(t *testing.T) {
	r := NewRegistry(mapSource{
		"character": []byte(`{"properties": {"age": {"type": "integer"}}}`),
	})
	if r.Schema("character") == nil {
		t.Fatalf("expected initial schema")
	}

	r.Reload(mapSource{})
	if r.Schema("character") != nil {
		t.Fatalf("expected schema table to be replaced")
	}
}

func TestDefaults(t *testing.T) {
	r := NewRegistry(mapSource{
		"character": []byte(`{"properties": {
			"is_dead": {"type": "boolean", "default": false},
			"age":     {"type": "integer"},
			"status":  {"type": "string", "default": "alive"}
		}}`),
	})

	defaults := r.Defaults("character")
	if len(defaults) != 2 {
		t.Fatalf("expected 2 defaults, got %d: %v", len(defaults), defaults)
	}
	if defaults["is_dead"] != false {
		t.Fatalf("expected is_dead default false, got %v", defaults["is_dead"])
	}
	if defaults["status"] != "alive" {
		t.Fatalf("expected status default alive, got %v", defaults["status"])
	}

	if got := r.Defaults("location"); len(got) != 0 {
		t.Fatalf("expected no defaults for schemaless type, got %v", got)
	}
}

func TestFieldInfos(t *testing.T) {
	r := NewRegistry(mapSource{
		"quest": []byte(`{"properties": {
			"status": {"type": "string", "enum": ["active", "done"], "default": "active", "description": "quest state"},
			"notes":  {"type": ["string", "null"]}
		}, "required": ["status"]}`),
	})

	infos := r.FieldInfos("quest")
	if len(infos) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(infos))
	}

	status := infos["status"]
	if status.Type != "string" || !status.Required || status.Default != "active" {
		t.Fatalf("unexpected status info: %+v", status)
	}
	if status.Description != "quest state" {
		t.Fatalf("unexpected description: %q", status.Description)
	}
	if len(status.Enum) != 2 {
		t.Fatalf("unexpected enum: %v", status.Enum)
	}

	// Nullable unions report their first non-null member.
	notes := infos["notes"]
	if notes.Type != "string" || notes.Required {
		t.Fatalf("unexpected notes info: %+v", notes)
	}
}

func TestLabels(t *testing.T) {
	r := NewRegistry(mapSource{})

	cases := []struct {
		name   string
		label  string
		plural string
	}{
		{"character", "Character", "Characters"},
		{"organisation", "Organisation", "Organisations"},
		{"family", "Family", "Families"},
		{"ability", "Ability", "Abilities"},
		{"Race", "Race", "Races"},
	}
	for _, tc := range cases {
		if got := r.Label(tc.name); got != tc.label {
			t.Fatalf("Label(%q) = %q, want %q", tc.name, got, tc.label)
		}
		if got := r.PluralLabel(tc.name); got != tc.plural {
			t.Fatalf("PluralLabel(%q) = %q, want %q", tc.name, got, tc.plural)
		}
	}
}
