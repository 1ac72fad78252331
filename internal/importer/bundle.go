package importer

// ImportBundle is the normalized, format-agnostic form of an uploaded
// export. Identifiers on its records are source-local: they only have
// meaning relative to each other, and are remapped to store ids during
// Apply.
type ImportBundle struct {
	Campaign   CampaignInfo `json:"campaign"`
	Entities   []Entity     `json:"entities"`
	Relations  []Relation   `json:"relations"`
	Tags       []Tag        `json:"tags"`
	EntityTags []EntityTag  `json:"entity_tags"`
	Attributes []Attribute  `json:"attributes"`
	Posts      []Post       `json:"posts"`
}

type CampaignInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

type Entity struct {
	SourceID   int64          `json:"id"`
	EntityType string         `json:"entity_type"`
	Name       string         `json:"name"`
	Subtype    string         `json:"subtype,omitempty"`
	Entry      string         `json:"entry,omitempty"`
	ImagePath  string         `json:"image_path,omitempty"`
	IsPrivate  int            `json:"is_private"`
	ParentID   *int64         `json:"parent_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

type Relation struct {
	SourceID    int64  `json:"source_id"`
	TargetID    int64  `json:"target_id"`
	Relation    string `json:"relation"`
	Mirror      string `json:"mirror,omitempty"`
	Description string `json:"description,omitempty"`
	IsPrivate   int    `json:"is_private"`
}

type Tag struct {
	SourceID    int64  `json:"id"`
	Name        string `json:"name"`
	Colour      string `json:"colour,omitempty"`
	Description string `json:"description,omitempty"`
}

type EntityTag struct {
	EntityID int64 `json:"entity_id"`
	TagID    int64 `json:"tag_id"`
}

type Attribute struct {
	EntityID  int64  `json:"entity_id"`
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	IsPrivate int    `json:"is_private"`
	Position  int    `json:"position"`
}

type Post struct {
	EntityID  int64  `json:"entity_id"`
	Name      string `json:"name,omitempty"`
	Entry     string `json:"entry,omitempty"`
	IsPrivate int    `json:"is_private"`
	Position  int    `json:"position"`
}

// ImportStats counts the rows actually written by one Apply call. Records
// dropped for unresolvable references are not counted anywhere.
type ImportStats struct {
	Entities   int
	Relations  int
	Tags       int
	Attributes int
	Posts      int
}
