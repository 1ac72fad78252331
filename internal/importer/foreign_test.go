package importer

import (
	"testing"
)

func TestMapForeignType(t *testing.T) {
	cases := []struct {
		foreign string
		native  string
	}{
		{"character", "character"},
		{"Character", "character"},
		{"organization", "organisation"},
		{"organisation", "organisation"},
		{"bestiary", "creature"},
		{"vehicle", "character"},
		{"", "character"},
	}
	for _, tc := range cases {
		if got := mapForeignType(tc.foreign); got != tc.native {
			t.Fatalf("mapForeignType(%q) = %q, want %q", tc.foreign, got, tc.native)
		}
	}
}

func TestParseForeign(t *testing.T) {
	t.Run("entities map to the native catalog", func(t *testing.T) {
		raw := []byte(`{
			"campaign": {"name": "Sandpoint"},
			"entities": [
				{"id": 5, "type": "organization", "name": "Night Watch", "entry_parsed": "<p>watchers</p>", "is_private": true,
				 "title": "The Watch", "age": "ancient", "unknown_field": "dropped", "tags": [30]},
				{"id": 6, "type": "bestiary", "name": "", "is_private": 0, "parent_id": 5}
			],
			"tags": [{"id": 30, "name": "factions", "color": "blue", "description": "groups"}],
			"relations": [{"owner_id": 5, "target_id": 6, "relation": "commands", "mirror_relation": "serves", "is_private": 1}],
			"attributes": [{"entity_id": 5, "name": "motto", "value": "vigilance", "default_order": 3}],
			"posts": [{"entity_id": 5, "name": "Charter", "entry_parsed": "<p>founding</p>", "entry": "ignored"}]
		}`)

		bundle, format, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if format != FormatForeign {
			t.Fatalf("expected foreign format, got %q", format)
		}
		if bundle.Campaign.Name != "Sandpoint" {
			t.Fatalf("unexpected campaign: %+v", bundle.Campaign)
		}

		if len(bundle.Entities) != 2 {
			t.Fatalf("expected 2 entities, got %d", len(bundle.Entities))
		}
		org := bundle.Entities[0]
		if org.EntityType != "organisation" {
			t.Fatalf("expected organisation, got %q", org.EntityType)
		}
		if org.IsPrivate != 1 {
			t.Fatalf("expected private flag 1, got %d", org.IsPrivate)
		}
		if org.Entry != "<p>watchers</p>" {
			t.Fatalf("unexpected entry: %q", org.Entry)
		}
		if org.Data["title"] != "The Watch" || org.Data["age"] != "ancient" {
			t.Fatalf("expected allow-listed fields in data, got %v", org.Data)
		}
		if _, ok := org.Data["unknown_field"]; ok {
			t.Fatalf("expected unknown_field to be dropped, got %v", org.Data)
		}

		beast := bundle.Entities[1]
		if beast.EntityType != "creature" {
			t.Fatalf("expected creature, got %q", beast.EntityType)
		}
		if beast.Name != "Unnamed" {
			t.Fatalf("expected placeholder name, got %q", beast.Name)
		}
		if beast.ParentID == nil || *beast.ParentID != 5 {
			t.Fatalf("expected parent_id 5, got %v", beast.ParentID)
		}

		if len(bundle.Tags) != 1 {
			t.Fatalf("expected 1 tag, got %d", len(bundle.Tags))
		}
		if bundle.Tags[0].Colour != "blue" || bundle.Tags[0].Description != "groups" {
			t.Fatalf("unexpected tag: %+v", bundle.Tags[0])
		}

		if len(bundle.EntityTags) != 1 || bundle.EntityTags[0].EntityID != 5 || bundle.EntityTags[0].TagID != 30 {
			t.Fatalf("unexpected tag links: %+v", bundle.EntityTags)
		}

		if len(bundle.Relations) != 1 {
			t.Fatalf("expected 1 relation, got %d", len(bundle.Relations))
		}
		rel := bundle.Relations[0]
		if rel.SourceID != 5 || rel.TargetID != 6 || rel.Mirror != "serves" || rel.IsPrivate != 1 {
			t.Fatalf("unexpected relation: %+v", rel)
		}

		if len(bundle.Attributes) != 1 || bundle.Attributes[0].Position != 3 {
			t.Fatalf("unexpected attributes: %+v", bundle.Attributes)
		}

		if len(bundle.Posts) != 1 || bundle.Posts[0].Entry != "<p>founding</p>" {
			t.Fatalf("unexpected posts: %+v", bundle.Posts)
		}
	})

	t.Run("top-level campaign fields are a fallback", func(t *testing.T) {
		bundle, _, err := Parse([]byte(`{"name": "Loose Export", "entry": "notes"}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if bundle.Campaign.Name != "Loose Export" || bundle.Campaign.Description != "notes" {
			t.Fatalf("unexpected campaign: %+v", bundle.Campaign)
		}
	})

	t.Run("non-object entity aborts the parse", func(t *testing.T) {
		if _, _, err := Parse([]byte(`{"entities": ["oops"]}`)); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestPrivacyFlag(t *testing.T) {
	cases := []struct {
		value any
		want  int
	}{
		{true, 1},
		{false, 0},
		{float64(1), 1},
		{float64(0), 0},
		{1, 1},
		{nil, 0},
		{"yes", 0},
	}
	for _, tc := range cases {
		if got := privacyFlag(tc.value); got != tc.want {
			t.Fatalf("privacyFlag(%v) = %d, want %d", tc.value, got, tc.want)
		}
	}
}
