package schema

import "strings"

var labelOverrides = map[string]string{
	"organisation": "Organisation",
}

var pluralOverrides = map[string]string{
	"family":  "Families",
	"ability": "Abilities",
}

// Label returns the human-readable singular name for an entity type.
func (r *Registry) Label(name string) string {
	key := strings.ToLower(name)
	if label, ok := labelOverrides[key]; ok {
		return label
	}
	return capitalize(key)
}

// PluralLabel returns the human-readable plural name for an entity type.
func (r *Registry) PluralLabel(name string) string {
	key := strings.ToLower(name)
	if label, ok := pluralOverrides[key]; ok {
		return label
	}
	return r.Label(key) + "s"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
