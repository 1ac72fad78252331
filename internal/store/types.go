package store

type Campaign struct {
	ID          int64
	Name        string
	Description string
	Settings    map[string]any
}

type EntityRecord struct {
	ID         int64
	CampaignID int64
	EntityType string
	Name       string
	Subtype    string
	Entry      string
	ImagePath  string
	IsPrivate  int
	ParentID   *int64
	Data       map[string]any
}

type TagRecord struct {
	ID          int64
	CampaignID  int64
	Name        string
	Colour      string
	Description string
}

type RelationRecord struct {
	SourceID    int64
	TargetID    int64
	Relation    string
	Mirror      string
	Description string
	IsPrivate   int
}

type EntityTagLink struct {
	EntityID int64
	TagID    int64
}

type AttributeRecord struct {
	EntityID  int64
	Name      string
	Value     string
	IsPrivate int
	Position  int
}

type PostRecord struct {
	EntityID  int64
	Name      string
	Entry     string
	IsPrivate int
	Position  int
}
