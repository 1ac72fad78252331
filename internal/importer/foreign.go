package importer

import (
	"fmt"
	"strings"
)

// foreignTypeMap translates Kanka-style entity type names into the native
// catalog. Both spellings of organisation land on the native one; foreign
// types with no mapping fall back to character, so unknown records are
// imported rather than dropped.
var foreignTypeMap = map[string]string{
	"character":    "character",
	"location":     "location",
	"family":       "family",
	"organisation": "organisation",
	"organization": "organisation",
	"item":         "item",
	"note":         "note",
	"event":        "event",
	"calendar":     "calendar",
	"race":         "race",
	"quest":        "quest",
	"journal":      "journal",
	"map":          "map",
	"timeline":     "timeline",
	"ability":      "ability",
	"creature":     "creature",
	"bestiary":     "creature",
}

// knownCustomFields is the allow-list of foreign per-entity fields copied
// verbatim into the entity's free-form data mapping. Anything else on the
// foreign record is dropped.
var knownCustomFields = []string{
	"title",
	"age",
	"sex",
	"pronouns",
	"location",
	"race",
	"family",
	"families",
	"organisations",
	"organizations",
}

func mapForeignType(name string) string {
	if mapped, ok := foreignTypeMap[strings.ToLower(name)]; ok {
		return mapped
	}
	return "character"
}

// parseForeign maps a Kanka-style export into the native bundle shape.
// Source-local numeric ids are preserved so relations, attributes, posts,
// and tag links can be re-linked during Apply.
func parseForeign(doc map[string]any) (*ImportBundle, error) {
	bundle := &ImportBundle{
		Entities:   []Entity{},
		Relations:  []Relation{},
		Tags:       []Tag{},
		EntityTags: []EntityTag{},
		Attributes: []Attribute{},
		Posts:      []Post{},
	}

	bundle.Campaign = foreignCampaign(doc)

	for i, raw := range sliceField(doc, "entities") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("foreign import: entity %d is not an object", i)
		}
		entity := foreignEntity(obj)
		bundle.Entities = append(bundle.Entities, entity)

		for _, tagRaw := range sliceField(obj, "tags") {
			if tagID, ok := intValue(tagRaw); ok {
				bundle.EntityTags = append(bundle.EntityTags, EntityTag{
					EntityID: entity.SourceID,
					TagID:    tagID,
				})
			}
		}
	}

	for i, raw := range sliceField(doc, "tags") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("foreign import: tag %d is not an object", i)
		}
		bundle.Tags = append(bundle.Tags, Tag{
			SourceID:    intField(obj, "id"),
			Name:        stringField(obj, "name"),
			Colour:      firstStringField(obj, "colour", "color"),
			Description: firstStringField(obj, "entry", "description"),
		})
	}

	for i, raw := range sliceField(doc, "relations") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("foreign import: relation %d is not an object", i)
		}
		bundle.Relations = append(bundle.Relations, Relation{
			SourceID:    firstIntField(obj, "owner_id", "source_id"),
			TargetID:    intField(obj, "target_id"),
			Relation:    stringField(obj, "relation"),
			Mirror:      stringField(obj, "mirror_relation"),
			Description: stringField(obj, "description"),
			IsPrivate:   privacyFlag(obj["is_private"]),
		})
	}

	for i, raw := range sliceField(doc, "attributes") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("foreign import: attribute %d is not an object", i)
		}
		bundle.Attributes = append(bundle.Attributes, Attribute{
			EntityID:  intField(obj, "entity_id"),
			Name:      stringField(obj, "name"),
			Value:     stringField(obj, "value"),
			IsPrivate: privacyFlag(obj["is_private"]),
			Position:  int(firstIntField(obj, "default_order", "position")),
		})
	}

	for i, raw := range sliceField(doc, "posts") {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("foreign import: post %d is not an object", i)
		}
		bundle.Posts = append(bundle.Posts, Post{
			EntityID:  intField(obj, "entity_id"),
			Name:      stringField(obj, "name"),
			Entry:     firstStringField(obj, "entry_parsed", "entry"),
			IsPrivate: privacyFlag(obj["is_private"]),
			Position:  int(intField(obj, "position")),
		})
	}

	return bundle, nil
}

func foreignCampaign(doc map[string]any) CampaignInfo {
	info := CampaignInfo{
		Name:        stringField(doc, "name"),
		Description: firstStringField(doc, "entry_parsed", "entry"),
	}
	if obj, ok := doc["campaign"].(map[string]any); ok {
		info.Name = stringField(obj, "name")
		info.Description = firstStringField(obj, "entry_parsed", "entry")
		if settings, ok := obj["settings"].(map[string]any); ok {
			info.Settings = settings
		}
	}
	return info
}

func foreignEntity(obj map[string]any) Entity {
	entity := Entity{
		SourceID:   intField(obj, "id"),
		EntityType: mapForeignType(stringField(obj, "type")),
		Name:       stringField(obj, "name"),
		Subtype:    stringField(obj, "subtype"),
		Entry:      firstStringField(obj, "entry_parsed", "entry"),
		ImagePath:  firstStringField(obj, "image_path", "image"),
		IsPrivate:  privacyFlag(obj["is_private"]),
	}
	if entity.Name == "" {
		entity.Name = "Unnamed"
	}
	if parent, ok := intValue(obj["parent_id"]); ok {
		entity.ParentID = &parent
	}

	data := map[string]any{}
	for _, field := range knownCustomFields {
		if value, ok := obj[field]; ok {
			data[field] = value
		}
	}
	if len(data) > 0 {
		entity.Data = data
	}

	return entity
}

func sliceField(obj map[string]any, key string) []any {
	items, _ := obj[key].([]any)
	return items
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func firstStringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(obj map[string]any, key string) int64 {
	n, _ := intValue(obj[key])
	return n
}

func firstIntField(obj map[string]any, keys ...string) int64 {
	for _, key := range keys {
		if n, ok := intValue(obj[key]); ok {
			return n
		}
	}
	return 0
}

func intValue(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// privacyFlag coerces the foreign is_private value, which shows up as a
// boolean or a number depending on the exporter, into a 0/1 flag.
func privacyFlag(value any) int {
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
	case float64:
		if v != 0 {
			return 1
		}
	case int:
		if v != 0 {
			return 1
		}
	}
	return 0
}
